package chain

// scanner holds the state of a single parse. Indices are byte offsets; every
// structural character is ASCII, so multi-byte runes never match one.
type scanner struct {
	input   string
	start   int  // first byte of the current segment
	depth   int  // parenthesis nesting
	quote   byte // active quote character, 0 when unquoted
	ctxOpen int  // index of the '(' opening the current context, -1 if none
	ctxEnd  int  // index of the ')' closing the current context, -1 if none
	out     []*Segment
}

// parse scans input into segments. It never backtracks.
func parse(input string) ([]*Segment, error) {
	if input == "" {
		return nil, syntaxError(input, 0, "empty expression")
	}
	s := &scanner{input: input, ctxOpen: -1, ctxEnd: -1}

	for i := 0; i < len(input); i++ {
		c := input[i]
		if s.quote != 0 {
			if c == s.quote {
				s.quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			if s.depth == 0 {
				return nil, syntaxError(input, i, "stray quote ["+string(c)+"] found")
			}
			s.quote = c
		case '(':
			if s.depth == 0 {
				if s.ctxOpen >= 0 {
					return nil, syntaxError(input, i, "a segment may have at most one context clause")
				}
				s.ctxOpen = i
			}
			s.depth++
		case ')':
			if s.depth == 0 {
				return nil, syntaxError(input, i, "imbalanced parentheses")
			}
			s.depth--
			if s.depth == 0 {
				s.ctxEnd = i
			}
		case '=':
			if s.depth == 0 {
				return nil, syntaxError(input, i, "stray symbol [=] found")
			}
		case ';':
			if s.depth == 0 {
				return nil, syntaxError(input, i, "stray symbol [;] found")
			}
		case '<', '>':
			if s.depth == 0 {
				return nil, syntaxError(input, i, "stray tag mark found")
			}
		case '\\':
			if s.depth == 0 {
				return nil, syntaxError(input, i, "illegal escape character")
			}
		case '.':
			if s.depth == 0 {
				if err := s.finish(i); err != nil {
					return nil, err
				}
			}
		default:
			if s.depth == 0 && s.ctxEnd >= 0 {
				return nil, syntaxError(input, i, "unexpected text after context clause")
			}
		}
	}

	if s.quote != 0 {
		return nil, syntaxError(input, len(input), "unterminated quote")
	}
	if s.depth > 0 {
		return nil, syntaxError(input, len(input), "imbalanced parentheses")
	}
	if err := s.finish(len(input)); err != nil {
		return nil, err
	}
	return s.out, nil
}

// finish materializes the segment ending at end and resets per-segment state.
func (s *scanner) finish(end int) error {
	nameEnd, context := end, ""
	if s.ctxOpen >= 0 {
		nameEnd = s.ctxOpen
		context = s.input[s.ctxOpen+1 : s.ctxEnd]
	}
	if nameEnd == s.start {
		return syntaxError(s.input, s.start, "empty segment name")
	}
	s.out = append(s.out, newSegment(s.input[s.start:nameEnd], context))
	s.start = end + 1
	s.ctxOpen, s.ctxEnd = -1, -1
	return nil
}
