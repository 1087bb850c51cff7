package node

import (
	"errors"
	"fmt"
)

// NoPos marks a position the front end could not supply.
const NoPos = -1

// Sentinel errors for span construction.
var (
	ErrPartialSpan  = errors.New("span has exactly one sentinel end")
	ErrInvertedSpan = errors.New("span start is after its end")
	ErrNegativeSpan = errors.New("span offset is negative")
)

// Span is a half-open byte range [Start, End) into the unit's source text.
// Either both ends are valid offsets or both are NoPos.
type Span struct {
	start int
	end   int
}

// NoSpan is the span of a construct with no source position.
//
//nolint:gochecknoglobals // Immutable sentinel value.
var NoSpan = Span{start: NoPos, end: NoPos}

// NewSpan validates and returns a span.
func NewSpan(start, end int) (Span, error) {
	switch {
	case start == NoPos && end == NoPos:
		return NoSpan, nil
	case start == NoPos || end == NoPos:
		return NoSpan, fmt.Errorf("%w: [%d, %d)", ErrPartialSpan, start, end)
	case start < 0 || end < 0:
		return NoSpan, fmt.Errorf("%w: [%d, %d)", ErrNegativeSpan, start, end)
	case start > end:
		return NoSpan, fmt.Errorf("%w: [%d, %d)", ErrInvertedSpan, start, end)
	}

	return Span{start: start, end: end}, nil
}

// MustSpan is NewSpan for literal offsets known to be valid.
func MustSpan(start, end int) Span {
	span, err := NewSpan(start, end)
	if err != nil {
		panic(err)
	}

	return span
}

// Start returns the start offset, or NoPos.
func (s Span) Start() int { return s.start }

// End returns the end offset, or NoPos.
func (s Span) End() int { return s.end }

// IsValid reports whether the span carries real offsets.
func (s Span) IsValid() bool { return s.start != NoPos }

// Len returns the number of bytes covered, zero for NoSpan.
func (s Span) Len() int {
	if !s.IsValid() {
		return 0
	}

	return s.end - s.start
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return s.IsValid() && offset >= s.start && offset < s.end
}

// Text slices src by the span. It returns false for NoSpan or a span that
// does not fit the source.
func (s Span) Text(src []byte) (string, bool) {
	if !s.IsValid() || s.end > len(src) {
		return "", false
	}

	return string(src[s.start:s.end]), true
}

func (s Span) String() string {
	if !s.IsValid() {
		return "[nopos]"
	}

	return fmt.Sprintf("[%d, %d)", s.start, s.end)
}
