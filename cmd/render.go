package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/spigell/resume-fixer/internal/resume"
	"github.com/spigell/resume-fixer/internal/review"
	"github.com/spigell/resume-fixer/internal/textpatch"
)

const proposalContextRunes = 160

var (
	highlight = color.New(color.FgGreen, color.Bold)
	removed   = color.New(color.FgRed, color.CrossedOut)
	muted     = color.New(color.Faint)
	good      = color.New(color.FgGreen)
	improve   = color.New(color.FgYellow)
	heading   = color.New(color.Bold)
)

// renderProposal shows the replaced text and the proposed text in its
// surrounding context, with radius runes of context on each side.
func renderProposal(w io.Writer, change review.PendingChange, replaced string, radius int) {
	doc := change.AppliedContent
	sel := change.Selection

	before := textpatch.Span{Start: max(0, sel.Start-radius), End: sel.Start}
	total := len([]rune(doc))
	after := textpatch.Span{Start: sel.End, End: min(total, sel.End+radius)}

	prefix, suffix := "", ""
	if before.Start > 0 {
		prefix = "..."
	}
	if after.End < total {
		suffix = "..."
	}

	if replaced != "" {
		fmt.Fprintf(w, "%s %s\n", heading.Sprint("Replaces:"), removed.Sprint(replaced))
	}
	fmt.Fprintf(w, "%s %s%s%s%s%s\n",
		heading.Sprint("Proposed:"),
		muted.Sprint(prefix),
		before.Slice(doc),
		highlight.Sprint(sel.Slice(doc)),
		after.Slice(doc),
		muted.Sprint(suffix),
	)
}

// replacedText returns what the pending change removes from the original document.
func replacedText(change review.PendingChange) string {
	original := []rune(change.OriginalContent)
	applied := []rune(change.AppliedContent)
	sel := change.Selection

	tail := len(applied) - sel.End
	end := len(original) - tail
	if sel.Start > end || end > len(original) {
		return ""
	}
	return string(original[sel.Start:end])
}

func renderFeedback(w io.Writer, record *resume.Record) {
	fmt.Fprintf(w, "%s %s\n", heading.Sprint("ID:"), record.ID)
	fmt.Fprintf(w, "%s %s", heading.Sprint("Job:"), record.JobTitle)
	if record.CompanyName != "" {
		fmt.Fprintf(w, " at %s", record.CompanyName)
	}
	fmt.Fprintf(w, "\n%s %s\n", heading.Sprint("Created:"), record.CreatedAt.Format("2006-01-02 15:04"))

	feedback := record.Feedback
	if feedback == nil {
		fmt.Fprintln(w, muted.Sprint("no feedback stored"))
		return
	}

	fmt.Fprintf(w, "%s %d/100\n", heading.Sprint("Overall score:"), feedback.OverallScore)
	for _, category := range feedback.Categories() {
		fmt.Fprintf(w, "\n%s %d/100\n", heading.Sprint(category.Name.Label()), category.Score)
		for _, tip := range category.Tips {
			marker := improve.Sprint("!")
			if tip.Type == resume.TipGood {
				marker = good.Sprint("+")
			}
			fmt.Fprintf(w, "  %s %s\n", marker, tip.Tip)
			if tip.Explanation != "" {
				fmt.Fprintf(w, "    %s\n", muted.Sprint(strings.TrimSpace(tip.Explanation)))
			}
		}
	}
}

func tipLabel(tip resume.OpenTip) string {
	return fmt.Sprintf("[%s] %s", tip.Category.Label(), tip.Tip.Tip)
}
