package resume

import (
	"errors"
	"strings"
	"testing"
)

type resolvedSet map[string]bool

func (r resolvedSet) IsResolved(tag string) bool { return r[tag] }

func sampleFeedback() *Feedback {
	return &Feedback{
		OverallScore: 64,
		ATS: Category{Score: 70, Tips: []Tip{
			{Type: TipGood, Tip: "Standard section headings"},
			{Type: TipImprove, Tip: "Add job keywords"},
		}},
		Content: Category{Score: 55, Tips: []Tip{
			{Type: TipImprove, Tip: "Quantify your leadership", Explanation: "Numbers help", OriginalSnippet: "managed a team"},
			{Type: TipImprove, Tip: "Use action verbs"},
		}},
		Skills: Category{Score: 80, Tips: []Tip{
			{Type: TipGood, Tip: "Relevant stack"},
		}},
	}
}

func TestOpenTips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolver Resolver
		expect   []string
	}{
		{
			name:   "nil resolver lists every improvable tip",
			expect: []string{"Add job keywords", "Quantify your leadership", "Use action verbs"},
		},
		{
			name:     "resolved tips are hidden",
			resolver: resolvedSet{"Quantify your leadership": true},
			expect:   []string{"Add job keywords", "Use action verbs"},
		},
		{
			name:     "everything resolved",
			resolver: resolvedSet{"Add job keywords": true, "Quantify your leadership": true, "Use action verbs": true},
			expect:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			open := OpenTips(sampleFeedback(), tt.resolver)

			var got []string
			for _, tip := range open {
				got = append(got, tip.Tag())
			}

			if strings.Join(got, "|") != strings.Join(tt.expect, "|") {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestOpenTipsNilFeedback(t *testing.T) {
	t.Parallel()

	if open := OpenTips(nil, nil); len(open) != 0 {
		t.Fatalf("expected no tips, got %v", open)
	}
}

func TestOpenTipSnippet(t *testing.T) {
	t.Parallel()

	open := OpenTips(sampleFeedback(), nil)

	if open[1].Category != CategoryContent || open[1].Snippet() != "managed a team" {
		t.Fatalf("expected quoted snippet, got %+v", open[1])
	}

	if open[2].Snippet() != "" {
		t.Fatalf("expected no snippet without a quote, got %q", open[2].Snippet())
	}
}

func TestFeedbackNormalize(t *testing.T) {
	t.Parallel()

	feedback := &Feedback{
		ParsedText: "  # Jane Doe \n",
		Structure: Category{Tips: []Tip{
			{Type: " GOOD ", Tip: " Clear layout "},
			{Type: "", Tip: "Shorten summary", Explanation: " too long "},
			{Type: TipImprove, Tip: "   "},
			{Type: "warning", Tip: "Fix dates"},
		}},
	}

	feedback.Normalize()

	if feedback.ParsedText != "# Jane Doe" {
		t.Fatalf("unexpected parsed text: %q", feedback.ParsedText)
	}

	tips := feedback.Structure.Tips
	if len(tips) != 3 {
		t.Fatalf("expected 3 tips, got %d", len(tips))
	}

	if tips[0].Type != TipGood || tips[0].Tip != "Clear layout" {
		t.Fatalf("unexpected first tip: %+v", tips[0])
	}

	if tips[1].Type != TipImprove || tips[1].Explanation != "too long" {
		t.Fatalf("unexpected second tip: %+v", tips[1])
	}

	if tips[2].Type != TipImprove {
		t.Fatalf("unknown type must become improve, got %q", tips[2].Type)
	}
}

func TestCategoryLabels(t *testing.T) {
	t.Parallel()

	labels := map[CategoryName]string{
		CategoryATS:          "ATS",
		CategoryToneAndStyle: "Tone & Style",
		CategoryContent:      "Content",
		CategoryStructure:    "Structure",
		CategorySkills:       "Skills",
	}

	for name, label := range labels {
		if name.Label() != label {
			t.Fatalf("expected %q for %q, got %q", label, name, name.Label())
		}
	}
}

func TestRecordDocument(t *testing.T) {
	t.Parallel()

	record := &Record{Feedback: &Feedback{ParsedText: "from feedback"}}
	if record.Document() != "from feedback" {
		t.Fatalf("expected feedback fallback, got %q", record.Document())
	}

	record.ParsedText = "edited"
	if record.Document() != "edited" {
		t.Fatalf("expected stored text, got %q", record.Document())
	}

	if (&Record{}).Document() != "" {
		t.Fatalf("expected empty document")
	}
}

func TestValidatePDFRejectsNonPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "plain text", data: []byte("Jane Doe\nGo developer")},
		{name: "png header", data: []byte("\x89PNG\r\n\x1a\n")},
		{name: "truncated pdf", data: []byte("%PDF-1.7\n1 0 obj\n<<")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ValidatePDF(tt.data); !errors.Is(err, ErrNotPDF) {
				t.Fatalf("expected ErrNotPDF, got %v", err)
			}
		})
	}
}
