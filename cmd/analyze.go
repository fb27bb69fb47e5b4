package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/logger"
	"github.com/spigell/resume-fixer/internal/resume"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a PDF resume against a job and store the feedback",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("pdf", "p", "", "path to the resume PDF")
	analyzeCmd.Flags().StringP("title", "t", "", "target job title")
	analyzeCmd.Flags().StringP("company", "c", "", "target company name")
	analyzeCmd.Flags().String("description", "", "target job description")
	analyzeCmd.Flags().String("description-file", "", "file with the target job description ('-' for stdin)")
	analyzeCmd.Flags().Bool("generate-description", false, "draft a job description with the model when none is given")

	analyzeCmd.MarkFlagRequired("pdf")
	analyzeCmd.MarkFlagRequired("title")
	analyzeCmd.MarkFlagsMutuallyExclusive("description", "description-file", "generate-description")
}

func analyze(cmd *cobra.Command) {
	a := newApplication()
	defer a.Close()

	flags := cmd.Flags()
	pdfPath, _ := flags.GetString("pdf")
	title, _ := flags.GetString("title")
	company, _ := flags.GetString("company")

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		a.logger.Fatal("reading resume pdf", zap.String("path", pdfPath), zap.Error(err))
	}

	pages, err := resume.ValidatePDF(pdf)
	if err != nil {
		a.logger.Fatal("validating resume pdf", zap.String("path", pdfPath), zap.Error(err))
	}

	a.logger.Info("resume pdf accepted", zap.String("path", pdfPath), zap.Int("pages", pages))

	generator := a.generator()

	description, err := jobDescription(cmd)
	if err != nil {
		a.logger.Fatal("reading job description", zap.Error(err))
	}

	if generate, _ := flags.GetBool("generate-description"); generate {
		describer := a.describer(generator)
		description, err = describer.DescribeJob(a.ctx, title, company)
		if err != nil {
			a.logger.Fatal("generating job description", zap.Error(err))
		}
		a.logger.Info("job description generated", zap.Int("length", len([]rune(description))))
	}

	job := resume.Job{Title: strings.TrimSpace(title), Company: strings.TrimSpace(company), Description: description}

	a.logger.Info("analyzing resume", zap.String("job_title", job.Title), zap.String("model", generator.Model()))

	feedback, err := a.analyzer(generator).AnalyzePDF(a.ctx, pdf, job)
	if err != nil {
		a.logger.Fatal("analyzing resume", zap.Error(err))
	}

	record := &resume.Record{
		CompanyName:    job.Company,
		JobTitle:       job.Title,
		JobDescription: job.Description,
		PDF:            pdf,
		PageCount:      pages,
		Feedback:       feedback,
		ParsedText:     feedback.ParsedText,
	}

	if err := a.store.Save(a.ctx, record); err != nil {
		a.logger.Fatal("saving analysis", zap.Error(err))
	}

	a.logger.Info("analysis saved", logger.RecordID(record.ID), zap.Int("overall_score", feedback.OverallScore))

	renderFeedback(os.Stdout, record)
	fmt.Printf("\nRun '%s fix %s' to apply suggested fixes.\n", app, record.ID)
}

func jobDescription(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("description-file"); path != "" {
		text, err := readTextFile(path)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}

	description, _ := cmd.Flags().GetString("description")
	return strings.TrimSpace(description), nil
}
