package chain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vk/tagscript/internal/value"
)

// structural holds the characters that may never appear in a segment name.
const structural = `"'()=;.<>\`

// KeyValue is one entry of a keyed context.
type KeyValue struct {
	Key   string
	Value string
}

// Constructor builds a value of a registered type from text. The type
// registry satisfies it.
type Constructor interface {
	Construct(id value.TypeID, text string) (value.Value, bool)
}

// Segment is one `name(context)` unit of a chain. The context is presented
// either as a single raw string or as ordered key=value pairs, never both.
// A Segment is immutable once parsed, apart from its typed-context cache.
type Segment struct {
	name    string
	ctxText string // verbatim text between the parentheses
	raw     string
	hasRaw  bool
	keyed   []KeyValue

	mu       sync.Mutex
	rawCache map[value.TypeID]value.Value
	keyCache map[string]value.Value
}

// NewSegment builds a segment programmatically. context is decomposed with
// the same rules the parser applies; pass "" for no context.
func NewSegment(name, context string) (*Segment, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: segment name is empty", ErrSyntax)
	}
	if strings.ContainsAny(name, structural) {
		return nil, fmt.Errorf("%w: segment name %q contains a structural character", ErrSyntax, name)
	}
	return newSegment(name, context), nil
}

func newSegment(name, context string) *Segment {
	s := &Segment{name: name, ctxText: context}
	if context == "" {
		return s
	}
	if pairs, ok := decomposeKeyed(context); ok {
		s.keyed = pairs
		return s
	}
	s.raw = unquote(context)
	s.hasRaw = true
	return s
}

// Name returns the segment name.
func (s *Segment) Name() string { return s.name }

// HasContext reports whether the segment carries any context.
func (s *Segment) HasContext() bool { return s.hasRaw || len(s.keyed) > 0 }

// RawContext returns the raw context. It is absent when the context was
// decomposed into key=value pairs.
func (s *Segment) RawContext() (string, bool) { return s.raw, s.hasRaw }

// IsKeyed reports whether the context is a key=value list.
func (s *Segment) IsKeyed() bool { return len(s.keyed) > 0 }

// Keyed returns a copy of the keyed context in source order.
func (s *Segment) Keyed() []KeyValue {
	if len(s.keyed) == 0 {
		return nil
	}
	out := make([]KeyValue, len(s.keyed))
	copy(out, s.keyed)
	return out
}

// Keys returns the keyed-context keys in source order.
func (s *Segment) Keys() []string {
	keys := make([]string, 0, len(s.keyed))
	for _, kv := range s.keyed {
		keys = append(keys, kv.Key)
	}
	return keys
}

// Key returns the value bound to key in the keyed context. When a key
// repeats, the last binding wins.
func (s *Segment) Key(key string) (string, bool) {
	for i := len(s.keyed) - 1; i >= 0; i-- {
		if s.keyed[i].Key == key {
			return s.keyed[i].Value, true
		}
	}
	return "", false
}

// ContextAs converts the raw context into a value of type id. The result,
// including a failed construction, is cached on the segment; callers get an
// independent clone.
func (s *Segment) ContextAs(id value.TypeID, c Constructor) (value.Value, bool) {
	if !s.hasRaw {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rawCache == nil {
		s.rawCache = make(map[value.TypeID]value.Value)
	}
	v, seen := s.rawCache[id]
	if !seen {
		v, _ = c.Construct(id, s.raw)
		s.rawCache[id] = v
	}
	if v == nil {
		return nil, false
	}
	return v.Clone(), true
}

// KeyAs converts the value bound to key into a value of type id, caching
// the result like ContextAs.
func (s *Segment) KeyAs(key string, id value.TypeID, c Constructor) (value.Value, bool) {
	text, ok := s.Key(key)
	if !ok {
		return nil, false
	}
	cacheKey := key + "\x00" + string(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keyCache == nil {
		s.keyCache = make(map[string]value.Value)
	}
	v, seen := s.keyCache[cacheKey]
	if !seen {
		v, _ = c.Construct(id, text)
		s.keyCache[cacheKey] = v
	}
	if v == nil {
		return nil, false
	}
	return v.Clone(), true
}

// String renders the segment the way it was written.
func (s *Segment) String() string {
	if s.ctxText == "" {
		return s.name
	}
	return s.name + "(" + s.ctxText + ")"
}

// decomposeKeyed splits context into key=value pairs separated by ';'.
// Separators inside quotes or nested parentheses are literal. It reports
// false unless every non-empty part is a pair with a non-empty key.
func decomposeKeyed(context string) ([]KeyValue, bool) {
	var pairs []KeyValue
	for _, part := range splitTopLevel(context, ';') {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kv := splitTopLevel(part, '=')
		if len(kv) < 2 {
			return nil, false
		}
		key := strings.TrimSpace(kv[0])
		if key == "" {
			return nil, false
		}
		val := strings.TrimSpace(part[len(kv[0])+1:])
		pairs = append(pairs, KeyValue{Key: key, Value: unquote(val)})
	}
	return pairs, len(pairs) > 0
}

// splitTopLevel splits s on sep wherever sep is outside quotes and nested
// parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	var quote byte
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// unquote strips one pair of enclosing quotes when they wrap the whole text.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}
	if strings.IndexByte(s[1:], q) != len(s)-2 {
		return s
	}
	return s[1 : len(s)-1]
}
