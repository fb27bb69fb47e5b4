package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/logger"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List analyzed resumes, newest first",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		a := newApplication()
		defer a.Close()

		records, err := a.store.List(a.ctx)
		if err != nil {
			a.logger.Fatal("listing resumes", zap.Error(err))
		}

		if len(records) == 0 {
			a.logger.Info("no resumes stored yet")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tJOB\tCOMPANY\tSCORE\tCREATED")
		for _, r := range records {
			score := "-"
			if r.Feedback != nil {
				score = fmt.Sprintf("%d", r.Feedback.OverallScore)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.JobTitle, r.CompanyName, score, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		w.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the stored feedback of a resume",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		a := newApplication()
		defer a.Close()

		renderFeedback(os.Stdout, a.record(args[0]))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stored resume",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		a := newApplication()
		defer a.Close()

		if err := a.store.Delete(a.ctx, args[0]); err != nil {
			a.logger.Fatal("deleting resume", logger.RecordID(args[0]), zap.Error(err))
		}

		a.logger.Info("resume deleted", logger.RecordID(args[0]))
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored resume",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		a := newApplication()
		defer a.Close()

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			confirm := promptui.Prompt{Label: "Delete all stored resumes", IsConfirm: true}
			if _, err := confirm.Run(); err != nil {
				a.logger.Info("exiting", zap.String("reason", "not confirmed"))
				return
			}
		}

		n, err := a.store.Clear(a.ctx)
		if err != nil {
			a.logger.Fatal("clearing resumes", zap.Error(err))
		}

		a.logger.Info("resumes cleared", zap.Int64("count", n))
	},
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(listCmd, showCmd, deleteCmd, clearCmd)
}
