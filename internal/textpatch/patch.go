package textpatch

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidSpan is returned when a span does not fit the document it is applied to.
var ErrInvalidSpan = errors.New("invalid span")

// Patch is the outcome of replacing a span: the rewritten document and the
// extent of the inserted text inside it.
type Patch struct {
	NewDocument string
	NewSpan     Span
}

// BuildPatch replaces the text at span with replacement. NewSpan covers the
// replacement itself, so its length follows the replacement rather than the
// replaced text.
func BuildPatch(document string, span Span, replacement string) (Patch, error) {
	if !span.ValidFor(document) {
		return Patch{}, fmt.Errorf("%w: %s against document of %d runes", ErrInvalidSpan, span, utf8.RuneCountInString(document))
	}

	from := byteOffset(document, span.Start)
	to := from + byteOffset(document[from:], span.Len())

	var b strings.Builder
	b.Grow(len(document) - (to - from) + len(replacement))
	b.WriteString(document[:from])
	b.WriteString(replacement)
	b.WriteString(document[to:])

	return Patch{
		NewDocument: b.String(),
		NewSpan: Span{
			Start: span.Start,
			End:   span.Start + utf8.RuneCountInString(replacement),
		},
	}, nil
}

// Revert puts original back in place of the patched span, reconstructing the
// document the patch was built from.
func Revert(p Patch, original string) (string, error) {
	reverted, err := BuildPatch(p.NewDocument, p.NewSpan, original)
	if err != nil {
		return "", err
	}
	return reverted.NewDocument, nil
}

// LocateAndPatch locates snippet with l and replaces the match with replacement.
func (l *Locator) LocateAndPatch(document, snippet, replacement string) (Patch, Match, error) {
	match, err := l.Locate(document, snippet)
	if err != nil {
		return Patch{}, Match{}, err
	}

	patch, err := BuildPatch(document, match.Span, replacement)
	if err != nil {
		return Patch{}, match, err
	}
	return patch, match, nil
}
