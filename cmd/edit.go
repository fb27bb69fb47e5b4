package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/logger"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Replace the editable text of a stored resume",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := newApplication()
		defer a.Close()

		path, _ := cmd.Flags().GetString("file")
		text, err := readTextFile(path)
		if err != nil {
			a.logger.Fatal("reading resume text", zap.Error(err))
		}

		session := a.session(a.record(args[0]), false)
		if err := session.Edit(a.ctx, text); err != nil {
			a.logger.Fatal("saving resume text", zap.Error(err))
		}

		a.logger.Info("resume text updated", logger.RecordID(session.RecordID()), zap.Int("length", len([]rune(text))))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Write the editable resume text as Markdown",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := newApplication()
		defer a.Close()

		record := a.record(args[0])
		text := record.Document()
		if text == "" {
			a.logger.Fatal("resume has no editable text", logger.RecordID(record.ID))
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" || out == "-" {
			fmt.Print(text)
			return
		}

		if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
			a.logger.Fatal("writing export", zap.String("path", out), zap.Error(err))
		}

		a.logger.Info("resume exported", logger.RecordID(record.ID), zap.String("path", out))
	},
}

var reanalyzeCmd = &cobra.Command{
	Use:   "reanalyze ID",
	Short: "Analyze the edited resume text again and store the new feedback",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		a := newApplication()
		defer a.Close()

		record := a.record(args[0])
		if record.Document() == "" {
			a.logger.Fatal("resume has no editable text", logger.RecordID(record.ID))
		}

		session := a.session(record, true)
		if _, err := session.Reanalyze(a.ctx); err != nil {
			a.logger.Fatal("reanalyzing resume", zap.Error(err))
		}

		renderFeedback(os.Stdout, record)
	},
}

func init() {
	editCmd.Flags().StringP("file", "f", "", "file with the new resume text ('-' for stdin)")
	editCmd.MarkFlagRequired("file")

	exportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(editCmd, exportCmd, reanalyzeCmd)
}
