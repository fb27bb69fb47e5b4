package textpatch

import (
	"errors"
	"strings"
	"testing"
)

func TestLocateStrategies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		document string
		snippet  string
		strategy string
		span     Span
	}{
		{
			name:     "exact match",
			document: "I managed a team and delivered results.",
			snippet:  "managed a team",
			strategy: StrategyExact,
			span:     Span{Start: 2, End: 16},
		},
		{
			name:     "exact match picks leftmost occurrence",
			document: "team lead, team player",
			snippet:  "team",
			strategy: StrategyExact,
			span:     Span{Start: 0, End: 4},
		},
		{
			name:     "snippet is trimmed before matching",
			document: "Built CI pipelines in Go.",
			snippet:  "  CI pipelines \n",
			strategy: StrategyExact,
			span:     Span{Start: 6, End: 18},
		},
		{
			name:     "whitespace runs differ",
			document: "Managed   team\nof 5 engineers",
			snippet:  "Managed team of 5",
			strategy: StrategyFlexibleWhitespace,
			span:     Span{Start: 0, End: 19},
		},
		{
			name:     "case differs",
			document: "MANAGED A TEAM",
			snippet:  "managed a team",
			strategy: StrategyFlexibleWhitespace,
			span:     Span{Start: 0, End: 14},
		},
		{
			name:     "regexp metacharacters are literal",
			document: "Skills: C++  (expert)",
			snippet:  "C++ (expert)",
			strategy: StrategyFlexibleWhitespace,
			span:     Span{Start: 8, End: 21},
		},
		{
			name:     "punctuation and filler words differ",
			document: "Led projects. Managed a team - of 5 engineers.",
			snippet:  "managed team of 5!",
			strategy: StrategyLoose,
			span:     Span{Start: 14, End: 35},
		},
		{
			name:     "offsets count runes",
			document: "Développeur — managed a team",
			snippet:  "managed a team",
			strategy: StrategyExact,
			span:     Span{Start: 14, End: 28},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			match, err := Locate(tt.document, tt.snippet)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if match.Strategy != tt.strategy {
				t.Fatalf("expected strategy %q, got %q", tt.strategy, match.Strategy)
			}

			if match.Span != tt.span {
				t.Fatalf("expected span %s, got %s", tt.span, match.Span)
			}

			if !match.Span.ValidFor(tt.document) {
				t.Fatalf("span %s is not valid for document", match.Span)
			}
		})
	}
}

func TestLocateNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		document string
		snippet  string
	}{
		{
			name:     "claim absent from document",
			document: "I managed a team and delivered results.",
			snippet:  "increased revenue by 200%",
		},
		{
			name:     "blank snippet",
			document: "I managed a team and delivered results.",
			snippet:  " \t\n ",
		},
		{
			name:     "punctuation only snippet",
			document: "Results: --- !!!",
			snippet:  "?!",
		},
		{
			name:     "empty document",
			document: "",
			snippet:  "managed a team",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Locate(tt.document, tt.snippet)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestLooseStrategyDoesNotCrossLines(t *testing.T) {
	t.Parallel()

	_, err := Locate("Managed a\nteam", "managed, team")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoosePatternCap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		snippet string
		expect  string
	}{
		{
			name:    "pattern exactly at cap is kept whole",
			snippet: strings.Repeat("a", LoosePatternCap),
			expect:  strings.Repeat("a", LoosePatternCap),
		},
		{
			name:    "word cut by cap is kept as prefix",
			snippet: strings.Repeat("a", LoosePatternCap+1),
			expect:  strings.Repeat("a", LoosePatternCap),
		},
		{
			name:    "separator cut by cap is dropped",
			snippet: strings.Repeat("a", LoosePatternCap-2) + " bb",
			expect:  strings.Repeat("a", LoosePatternCap-2),
		},
		{
			name:    "punctuation is stripped",
			snippet: "Managed (5) engineers; shipped v2.0!",
			expect:  "Managed.*?5.*?engineers.*?shipped.*?v20",
		},
		{
			name:    "nothing left",
			snippet: "--",
			expect:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := LoosePattern(tt.snippet, LoosePatternCap)
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}

			if len(got) > LoosePatternCap {
				t.Fatalf("pattern exceeds cap: %d", len(got))
			}
		})
	}
}

func TestLocateBeyondCapUsesTruncatedPattern(t *testing.T) {
	t.Parallel()

	document := "Summary: Reduced cloud spend across all regions by migrating batch workloads to spot capacity."
	snippet := "Reduced cloud spend (across all regions) by migrating batch workloads to spot instances, saving money!!"

	if full := len(LoosePattern(snippet, 1000)); full <= LoosePatternCap {
		t.Fatalf("test snippet must render past the cap, got %d", full)
	}

	match, err := Locate(document, snippet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if match.Strategy != StrategyLoose {
		t.Fatalf("expected loose strategy, got %q", match.Strategy)
	}

	expected := "Reduced cloud spend across all regions by migrating batch workloads to spot"
	if got := match.Span.Slice(document); got != expected {
		t.Fatalf("unexpected matched text: %q", got)
	}

	// Without the cap the tail words are required and nothing matches.
	uncapped := NewLocator(LooseStrategy{Cap: 1000})
	if _, err := uncapped.Locate(document, snippet); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without truncation, got %v", err)
	}
}

func TestFlexibleWhitespacePattern(t *testing.T) {
	t.Parallel()

	got := FlexibleWhitespacePattern("  C++ \n dev.  ")
	expected := `(?i)C\+\+(?:\s|\p{Zs})+dev\.`
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}

	if FlexibleWhitespacePattern("   ") != "" {
		t.Fatalf("expected empty pattern for blank snippet")
	}
}

type stubStrategy struct {
	name  string
	span  Span
	ok    bool
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Locate(_, _ string) (Span, bool) {
	s.calls++
	return s.span, s.ok
}

func TestLocatorStopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	first := &stubStrategy{name: "first"}
	second := &stubStrategy{name: "second", span: Span{Start: 1, End: 2}, ok: true}
	third := &stubStrategy{name: "third", ok: true}

	locator := NewLocator(first, second, third)

	match, err := locator.Locate("abc", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if match.Strategy != "second" || match.Span != (Span{Start: 1, End: 2}) {
		t.Fatalf("unexpected match: %+v", match)
	}

	if first.calls != 1 || second.calls != 1 || third.calls != 0 {
		t.Fatalf("unexpected call counts: %d %d %d", first.calls, second.calls, third.calls)
	}
}

func TestDefaultLocatorStrategies(t *testing.T) {
	t.Parallel()

	names := NewLocator().Strategies()
	expected := []string{StrategyExact, StrategyFlexibleWhitespace, StrategyLoose}
	if strings.Join(names, ",") != strings.Join(expected, ",") {
		t.Fatalf("unexpected strategies: %v", names)
	}
}
