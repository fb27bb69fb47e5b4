package resume

// Resolver reports whether a tip was already addressed in the current session.
type Resolver interface {
	IsResolved(tag string) bool
}

type OpenTip struct {
	Category CategoryName
	Tip      Tip
}

// Tag is the key a tip is tracked under once resolved.
func (t OpenTip) Tag() string {
	return t.Tip.Tip
}

// Snippet is the resume text the analyzer quoted for this tip, or "" when it
// quoted none. The tip's own text is advice, not resume text, and is never
// used in its place.
func (t OpenTip) Snippet() string {
	return t.Tip.OriginalSnippet
}

// OpenTips lists the improvable tips of feedback that resolver does not mark
// as resolved, in category display order. A nil resolver hides nothing.
func OpenTips(feedback *Feedback, resolver Resolver) []OpenTip {
	var open []OpenTip
	for _, category := range feedback.Categories() {
		for _, tip := range category.Tips {
			if tip.Type != TipImprove {
				continue
			}
			if resolver != nil && resolver.IsResolved(tip.Tip) {
				continue
			}
			open = append(open, OpenTip{Category: category.Name, Tip: tip})
		}
	}
	return open
}
