package chain

import (
	"context"
	"fmt"
	"strings"
)

// Chain is an ordered, fixed-length sequence of segments plus the text it
// was parsed from and a cursor counting how many leading segments have been
// consumed. Relative accessors are offset from the cursor; the *At
// accessors ignore it.
type Chain struct {
	raw       string
	segments  []*Segment
	fulfilled int
	ctx       context.Context
}

// New assembles a chain from segments, rendering its text from them.
func New(segments ...*Segment) *Chain {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.String()
	}
	return &Chain{raw: strings.Join(parts, "."), segments: segments}
}

// Len returns the number of segments.
func (c *Chain) Len() int { return len(c.segments) }

// Fulfilled returns the cursor position.
func (c *Chain) Fulfilled() int { return c.fulfilled }

// Remaining returns the number of segments not yet consumed.
func (c *Chain) Remaining() int { return len(c.segments) - c.fulfilled }

// Complete reports whether every segment has been consumed.
func (c *Chain) Complete() bool { return c.fulfilled >= len(c.segments) }

// Advance moves the cursor forward by one, saturating at Len.
func (c *Chain) Advance() {
	if c.fulfilled < len(c.segments) {
		c.fulfilled++
	}
}

// SetFulfilled moves the cursor to n, which must lie in [0, Len].
func (c *Chain) SetFulfilled(n int) error {
	if n < 0 || n > len(c.segments) {
		return fmt.Errorf("%w: cannot fulfill %d of %d segments", ErrOutOfRange, n, len(c.segments))
	}
	c.fulfilled = n
	return nil
}

// Reset moves the cursor back to zero.
func (c *Chain) Reset() { c.fulfilled = 0 }

// Segment returns the segment offset positions past the cursor.
func (c *Chain) Segment(offset int) (*Segment, error) {
	index := c.fulfilled + offset
	if offset < 0 || index >= len(c.segments) {
		return nil, &RangeError{Index: index, Offset: offset, Fulfilled: c.fulfilled, Length: len(c.segments), Relative: true}
	}
	return c.segments[index], nil
}

// SegmentAt returns the segment at an absolute index.
func (c *Chain) SegmentAt(index int) (*Segment, error) {
	if index < 0 || index >= len(c.segments) {
		return nil, &RangeError{Index: index, Length: len(c.segments)}
	}
	return c.segments[index], nil
}

// Current returns the segment at the cursor, or nil when complete.
func (c *Chain) Current() *Segment {
	if c.Complete() {
		return nil
	}
	return c.segments[c.fulfilled]
}

// Name returns the name of the segment offset positions past the cursor, or
// "" when out of range.
func (c *Chain) Name(offset int) string {
	s, err := c.Segment(offset)
	if err != nil {
		return ""
	}
	return s.name
}

// HasContext reports whether the segment offset positions past the cursor
// carries context.
func (c *Chain) HasContext(offset int) bool {
	s, err := c.Segment(offset)
	return err == nil && s.HasContext()
}

// HasPrefix reports whether the unconsumed segments start with any of names.
// A dotted name such as "a.b" must match that many consecutive segments.
func (c *Chain) HasPrefix(names ...string) bool {
	if c.Complete() {
		return false
	}
	for _, name := range names {
		parts := strings.Split(name, ".")
		if len(parts) > c.Remaining() {
			continue
		}
		matched := true
		for i, part := range parts {
			if c.segments[c.fulfilled+i].name != part {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// Segments returns a copy of the segment slice.
func (c *Chain) Segments() []*Segment {
	out := make([]*Segment, len(c.segments))
	copy(out, c.segments)
	return out
}

// ImperfectClone returns a chain sharing this chain's segments and text
// with its cursor reset to zero.
func (c *Chain) ImperfectClone() *Chain {
	return &Chain{raw: c.raw, segments: c.segments}
}

// Clone returns a copy that also keeps the cursor position and context.
func (c *Chain) Clone() *Chain {
	return &Chain{raw: c.raw, segments: c.segments, fulfilled: c.fulfilled, ctx: c.ctx}
}

// Context returns the context of the resolution currently walking the
// chain, or context.Background if none was set.
func (c *Chain) Context() context.Context {
	if c.ctx != nil {
		return c.ctx
	}
	return context.Background()
}

// SetContext records the context of the resolution walking the chain, so
// processors that resolve further chains can carry it along.
func (c *Chain) SetContext(ctx context.Context) { c.ctx = ctx }

// String returns the original expression text.
func (c *Chain) String() string { return c.raw }
