package resume

import (
	"strings"
	"time"
)

type TipType string

const (
	TipGood    TipType = "good"
	TipImprove TipType = "improve"
)

type Tip struct {
	Type        TipType `json:"type"`
	Tip         string  `json:"tip"`
	Explanation string  `json:"explanation,omitempty"`
	// OriginalSnippet is the resume text the tip refers to, when the model quoted it.
	OriginalSnippet string `json:"originalSnippet,omitempty"`
}

type Category struct {
	Score int   `json:"score"`
	Tips  []Tip `json:"tips"`
}

type Feedback struct {
	// ParsedText is the markdown reconstruction of the resume returned by the analyzer.
	ParsedText   string   `json:"parsedText,omitempty"`
	OverallScore int      `json:"overallScore"`
	ATS          Category `json:"ATS"`
	ToneAndStyle Category `json:"toneAndStyle"`
	Content      Category `json:"content"`
	Structure    Category `json:"structure"`
	Skills       Category `json:"skills"`
}

type CategoryName string

const (
	CategoryATS          CategoryName = "ATS"
	CategoryToneAndStyle CategoryName = "toneAndStyle"
	CategoryContent      CategoryName = "content"
	CategoryStructure    CategoryName = "structure"
	CategorySkills       CategoryName = "skills"
)

// Label is the human readable category title, also sent to the fixer as context.
func (c CategoryName) Label() string {
	switch c {
	case CategoryATS:
		return "ATS"
	case CategoryToneAndStyle:
		return "Tone & Style"
	case CategoryContent:
		return "Content"
	case CategoryStructure:
		return "Structure"
	case CategorySkills:
		return "Skills"
	default:
		return string(c)
	}
}

type NamedCategory struct {
	Name CategoryName
	Category
}

// Categories returns the feedback sections in display order.
func (f *Feedback) Categories() []NamedCategory {
	if f == nil {
		return nil
	}

	return []NamedCategory{
		{Name: CategoryATS, Category: f.ATS},
		{Name: CategoryToneAndStyle, Category: f.ToneAndStyle},
		{Name: CategoryContent, Category: f.Content},
		{Name: CategoryStructure, Category: f.Structure},
		{Name: CategorySkills, Category: f.Skills},
	}
}

// Normalize trims tip texts, lowercases tip types and drops tips without text.
// Unknown tip types are kept as "improve" so they stay actionable.
func (f *Feedback) Normalize() {
	if f == nil {
		return
	}

	f.ParsedText = strings.TrimSpace(f.ParsedText)
	for _, c := range []*Category{&f.ATS, &f.ToneAndStyle, &f.Content, &f.Structure, &f.Skills} {
		tips := c.Tips[:0]
		for _, tip := range c.Tips {
			tip.Tip = strings.TrimSpace(tip.Tip)
			if tip.Tip == "" {
				continue
			}
			tip.Explanation = strings.TrimSpace(tip.Explanation)
			tip.OriginalSnippet = strings.TrimSpace(tip.OriginalSnippet)

			switch TipType(strings.ToLower(strings.TrimSpace(string(tip.Type)))) {
			case TipGood:
				tip.Type = TipGood
			default:
				tip.Type = TipImprove
			}
			tips = append(tips, tip)
		}
		c.Tips = tips
	}
}

// Job describes the position a resume is analyzed against.
type Job struct {
	Title       string
	Company     string
	Description string
}

type Record struct {
	ID             string
	CompanyName    string
	JobTitle       string
	JobDescription string
	PDF            []byte
	PageCount      int
	Feedback       *Feedback
	ParsedText     string
	CreatedAt      time.Time
}

func (r *Record) Job() Job {
	return Job{
		Title:       r.JobTitle,
		Company:     r.CompanyName,
		Description: r.JobDescription,
	}
}

// Document returns the editable resume text: the stored text when present,
// otherwise the reconstruction carried by the feedback.
func (r *Record) Document() string {
	if r.ParsedText != "" {
		return r.ParsedText
	}
	if r.Feedback != nil {
		return r.Feedback.ParsedText
	}
	return ""
}
