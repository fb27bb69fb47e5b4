package review

// ResolvedTags remembers which suggestions the user already accepted so they
// can be hidden from the list of open issues.
//
// Tags are the suggestion's display text. Two different suggestions with the
// same text are indistinguishable: accepting one hides both.
type ResolvedTags struct {
	tags map[string]struct{}
}

func NewResolvedTags() *ResolvedTags {
	return &ResolvedTags{tags: make(map[string]struct{})}
}

// Mark records tag as resolved. Empty tags are ignored.
func (r *ResolvedTags) Mark(tag string) {
	if tag == "" {
		return
	}
	if r.tags == nil {
		r.tags = make(map[string]struct{})
	}
	r.tags[tag] = struct{}{}
}

func (r *ResolvedTags) IsResolved(tag string) bool {
	if r == nil || tag == "" {
		return false
	}
	_, ok := r.tags[tag]
	return ok
}

func (r *ResolvedTags) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tags)
}

// Reset forgets every resolved tag, as when a new session starts.
func (r *ResolvedTags) Reset() {
	r.tags = make(map[string]struct{})
}
