// Package span provides source-range tagging. Every token, AST node and
// compile-time error carries a Span pointing back into the original source
// text. Compiled instructions carry no Span; runtime errors report the
// instruction's byte offset in the code stream instead.
package span

import "fmt"

// Span is a half-open byte range [Start, End) into the source string.
// Spans compose: a call expression's span covers its opening and closing
// parentheses, an identifier's span covers its sigil plus name.
type Span struct {
	Start int
	End   int
}

// New creates a Span covering [start, end).
func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// Join returns the smallest Span covering both s and other.
func (s Span) Join(other Span) Span {
	joined := s
	if other.Start < joined.Start {
		joined.Start = other.Start
	}
	if other.End > joined.End {
		joined.End = other.End
	}
	return joined
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text slices the covered bytes out of source. The span must satisfy
// Start <= End <= len(source).
func (s Span) Text(source string) string {
	return source[s.Start:s.End]
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
