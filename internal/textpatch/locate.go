// Package textpatch finds AI-quoted snippets inside a resume document and
// rewrites them. Matching escalates through progressively looser strategies:
// an exact substring, a whitespace-tolerant pattern and finally a loose
// word-only pattern. The loose tier favours recall over precision and may pick
// an unintended span in pathological documents.
package textpatch

import (
	"errors"
	"regexp"
	"strings"
)

const (
	StrategyExact              = "exact"
	StrategyFlexibleWhitespace = "flexible_whitespace"
	StrategyLoose              = "loose"

	// LoosePatternCap bounds the rendered loose pattern, in bytes.
	LoosePatternCap = 100

	looseSeparator = ".*?"
)

// ErrNotFound is returned when no strategy could place the snippet in the document.
var ErrNotFound = errors.New("snippet not found in document")

var (
	nonWordOrSpace = regexp.MustCompile(`[^\w\s\p{Zs}]`)
	whitespaceRun  = `(?:\s|\p{Zs})+`
)

// Strategy is a single matching tier. Implementations receive an already
// trimmed, non-empty snippet and must be free of side effects.
type Strategy interface {
	Name() string
	Locate(document, snippet string) (Span, bool)
}

// Match is a located snippet together with the strategy that found it.
type Match struct {
	Span     Span
	Strategy string
}

// Locator runs its strategies in order and returns the first success.
type Locator struct {
	strategies []Strategy
}

// NewLocator builds a locator from the given strategies. Without arguments
// the default exact, flexible-whitespace and loose tiers are used.
func NewLocator(strategies ...Strategy) *Locator {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}

	return &Locator{strategies: strategies}
}

// DefaultStrategies returns the standard three tiers in escalation order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		ExactStrategy{},
		FlexibleWhitespaceStrategy{},
		LooseStrategy{Cap: LoosePatternCap},
	}
}

var defaultLocator = NewLocator()

// Locate finds snippet in document with the default strategies.
func Locate(document, snippet string) (Match, error) {
	return defaultLocator.Locate(document, snippet)
}

// Locate returns the span of the first strategy that matches, or ErrNotFound.
func (l *Locator) Locate(document, snippet string) (Match, error) {
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		return Match{}, ErrNotFound
	}

	for _, strategy := range l.strategies {
		if span, ok := strategy.Locate(document, snippet); ok {
			return Match{Span: span, Strategy: strategy.Name()}, nil
		}
	}

	return Match{}, ErrNotFound
}

// Strategies returns the names of the configured tiers in order.
func (l *Locator) Strategies() []string {
	names := make([]string, 0, len(l.strategies))
	for _, s := range l.strategies {
		names = append(names, s.Name())
	}
	return names
}

// ExactStrategy is a case-sensitive substring search.
type ExactStrategy struct{}

func (ExactStrategy) Name() string { return StrategyExact }

func (ExactStrategy) Locate(document, snippet string) (Span, bool) {
	idx := strings.Index(document, snippet)
	if idx < 0 {
		return Span{}, false
	}
	return runeSpan(document, idx, idx+len(snippet)), true
}

// FlexibleWhitespaceStrategy matches the snippet's words verbatim but lets any
// run of whitespace stand in for any other, ignoring case. It absorbs line
// wraps and spacing noise from PDF text extraction.
type FlexibleWhitespaceStrategy struct{}

func (FlexibleWhitespaceStrategy) Name() string { return StrategyFlexibleWhitespace }

func (FlexibleWhitespaceStrategy) Locate(document, snippet string) (Span, bool) {
	pattern := FlexibleWhitespacePattern(snippet)
	if pattern == "" {
		return Span{}, false
	}
	return findPattern(document, pattern)
}

// FlexibleWhitespacePattern renders the case-insensitive pattern used by the
// flexible-whitespace tier, or "" for a blank snippet.
func FlexibleWhitespacePattern(snippet string) string {
	tokens := strings.Fields(snippet)
	if len(tokens) == 0 {
		return ""
	}
	for i, t := range tokens {
		tokens[i] = regexp.QuoteMeta(t)
	}
	return "(?i)" + strings.Join(tokens, whitespaceRun)
}

// LooseStrategy drops punctuation from the snippet and lets anything on the
// same line sit between the remaining words. Cap limits the rendered pattern
// length; zero means LoosePatternCap.
type LooseStrategy struct {
	Cap int
}

func (LooseStrategy) Name() string { return StrategyLoose }

func (s LooseStrategy) Locate(document, snippet string) (Span, bool) {
	pattern := LoosePattern(snippet, s.Cap)
	if pattern == "" {
		return Span{}, false
	}
	return findPattern(document, "(?i)"+pattern)
}

// LoosePattern renders the loose tier's pattern (without flags) truncated to
// limit bytes. A separator cut by the truncation is dropped so the pattern
// never ends in a dangling wildcard; a cut word is kept as a prefix.
func LoosePattern(snippet string, limit int) string {
	if limit <= 0 {
		limit = LoosePatternCap
	}

	tokens := strings.Fields(nonWordOrSpace.ReplaceAllString(snippet, ""))
	if len(tokens) == 0 {
		return ""
	}

	pattern := strings.Join(tokens, looseSeparator)
	if len(pattern) > limit {
		pattern = strings.TrimRight(pattern[:limit], looseSeparator)
	}
	return pattern
}

func findPattern(document, pattern string) (Span, bool) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Span{}, false
	}

	loc := re.FindStringIndex(document)
	if loc == nil {
		return Span{}, false
	}
	return runeSpan(document, loc[0], loc[1]), true
}
