package textpatch

import (
	"fmt"
	"unicode/utf8"
)

// Span is a half-open [Start, End) range of rune offsets into a document.
// A span is only meaningful for the document snapshot it was computed against.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// ValidFor reports whether the span satisfies 0 <= Start <= End <= len(document) in runes.
func (s Span) ValidFor(document string) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= utf8.RuneCountInString(document)
}

// Slice returns the text covered by the span. The span must be valid for document.
func (s Span) Slice(document string) string {
	from := byteOffset(document, s.Start)
	to := from + byteOffset(document[from:], s.Len())
	return document[from:to]
}

// byteOffset converts a rune offset into a byte offset. Offsets past the end
// of s are clamped to len(s).
func byteOffset(s string, runes int) int {
	if runes <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runes {
			return i
		}
		n++
	}
	return len(s)
}

// runeSpan converts a byte range reported by the regexp or strings packages into a rune span.
func runeSpan(document string, from, to int) Span {
	start := utf8.RuneCountInString(document[:from])
	return Span{Start: start, End: start + utf8.RuneCountInString(document[from:to])}
}
