package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/ai"
	"github.com/spigell/resume-fixer/internal/editor"
	"github.com/spigell/resume-fixer/internal/logger"
	"github.com/spigell/resume-fixer/internal/resume"
	"github.com/spigell/resume-fixer/internal/textpatch"
)

const (
	PromptAccept     = "Accept"
	PromptReject     = "Reject"
	PromptRegenerate = "Regenerate"
	PromptRetry      = "Retry"
	PromptBack       = "back"
	PromptDone       = "Done"
	PromptReanalyze  = "Re-analyze the edited resume"
)

var errExit = errors.New("exit requested")

var fixCmd = &cobra.Command{
	Use:   "fix ID",
	Short: "Interactively apply AI suggested fixes to a stored resume",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		fix(args[0])
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
}

func fix(id string) {
	a := newApplication()
	defer a.Close()

	record := a.record(id)
	if record.Document() == "" {
		a.logger.Fatal("resume has no editable text",
			logger.RecordID(record.ID),
			zap.String("hint", fmt.Sprintf("provide one with '%s edit %s --file resume.md'", app, record.ID)),
		)
	}

	session := a.session(record, true)

	for {
		open := session.OpenTips()
		if len(open) == 0 {
			a.logger.Info("no open tips left", logger.RecordID(record.ID))
			return
		}

		items := make([]string, 0, len(open)+2)
		for _, tip := range open {
			items = append(items, tipLabel(tip))
		}
		items = append(items, PromptReanalyze, PromptDone)

		tipPrompt := promptui.Select{
			Label: fmt.Sprintf("Choose a tip to fix (%d open)", len(open)),
			Items: items,
			Size:  10,
		}

		idx, selected, err := tipPrompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) {
			return
		}
		if err != nil {
			a.logger.Fatal("exiting", zap.Error(err))
		}

		switch selected {
		case PromptDone:
			return
		case PromptReanalyze:
			feedback, err := session.Reanalyze(a.ctx)
			if err != nil {
				a.logger.Error("reanalysis failed", zap.Error(err))
				continue
			}
			a.logger.Info("resume reanalyzed", zap.Int("overall_score", feedback.OverallScore))
			continue
		}

		if err := fixTip(a, session, open[idx]); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			a.logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// fixTip runs the request, review and decision loop for a single tip.
func fixTip(a *application, session *editor.Session, tip resume.OpenTip) error {
	fmt.Printf("\n%s %s\n", heading.Sprint(tip.Category.Label()+":"), tip.Tip.Tip)
	if tip.Tip.Explanation != "" {
		fmt.Println(muted.Sprint(tip.Tip.Explanation))
	}

	for {
		result, err := session.RequestFix(a.ctx, tip)
		if err != nil {
			if !errors.Is(err, ai.ErrFixGenerationFailed) {
				return err
			}
			a.logger.Warn("could not get a fix", zap.Error(err))
			if retry, err := choose("Try again?", PromptRetry, PromptBack); err != nil || retry != PromptRetry {
				return err
			}
			continue
		}

		change, err := session.ApplyFix(result, tip.Tag())
		if err != nil {
			if !errors.Is(err, textpatch.ErrNotFound) {
				return err
			}
			fmt.Printf("%s %s\n", heading.Sprint("Suggestion:"), result.Improved)
			a.logger.Warn("could not find the text to replace, please apply the suggestion manually",
				zap.String("snippet", result.OriginalSnippet),
				zap.String("hint", fmt.Sprintf("use '%s edit %s --file FILE'", app, session.RecordID())),
			)
			if next, err := choose("What next?", PromptRegenerate, PromptBack); err != nil || next != PromptRegenerate {
				return err
			}
			continue
		}

		fmt.Println()
		renderProposal(os.Stdout, change, replacedText(change), proposalContextRunes)
		if result.Explanation != "" {
			fmt.Printf("%s %s\n", heading.Sprint("Why:"), muted.Sprint(result.Explanation))
		}

		decision, err := choose("Apply this change?", PromptAccept, PromptReject, PromptRegenerate)
		if err != nil {
			return err
		}

		switch decision {
		case PromptAccept:
			if _, err := session.Accept(a.ctx); err != nil {
				return err
			}
			a.logger.Info("change applied", logger.Tag(tip.Tag()))
			return nil
		case PromptReject:
			if _, err := session.Reject(); err != nil {
				return err
			}
			a.logger.Info("change discarded", logger.Tag(tip.Tag()))
			return nil
		case PromptRegenerate:
			if _, err := session.Reject(); err != nil {
				return err
			}
		}
	}
}

func choose(label string, items ...string) (string, error) {
	p := promptui.Select{Label: label, Items: items}
	_, selected, err := p.Run()
	if errors.Is(err, promptui.ErrInterrupt) {
		return "", errExit
	}
	return selected, err
}
