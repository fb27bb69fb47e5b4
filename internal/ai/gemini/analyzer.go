package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/ai"
	"github.com/spigell/resume-fixer/internal/resume"
	"github.com/spigell/resume-fixer/internal/utils"
)

const (
	defaultMaxLogLength = 200
	maxJobDescription   = 8000
	maxResumeText       = 30000

	pdfResumeSource = "The resume is attached as a PDF document. Read it and reconstruct it completely as Markdown in the parsedText field."
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	GenerateJSON(ctx context.Context, system, message string) (string, error)
	GenerateJSONWithPDF(ctx context.Context, system string, pdf []byte, message string) (string, error)
	Model() string
}

// Analyzer scores a resume against a job and returns categorised tips.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Analyzer = (*Analyzer)(nil)

func NewAnalyzer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) AnalyzePDF(ctx context.Context, pdf []byte, job ai.JobContext) (*resume.Feedback, error) {
	if len(pdf) == 0 {
		return nil, errors.New("resume pdf is required")
	}

	prompt := buildAnalyzePrompt(job, pdfResumeSource)
	a.logRequest("analyze pdf", prompt, zap.Int("pdf_bytes", len(pdf)))

	raw, err := a.generator.GenerateJSONWithPDF(ctx, analyzeSystemPrompt, pdf, prompt)
	if err != nil {
		return nil, fmt.Errorf("analyze resume pdf: %w", err)
	}

	return a.parse(raw)
}

// AnalyzeText re-scores an edited resume. The returned feedback keeps text as
// its ParsedText when the model does not send a reconstruction back.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string, job ai.JobContext) (*resume.Feedback, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("resume text is required")
	}

	source := "Here is the resume content to analyze:\n\n" + utils.Excerpt(text, maxResumeText)
	prompt := buildAnalyzePrompt(job, source)
	a.logRequest("analyze text", prompt, zap.Int("text_length", utf8.RuneCountInString(text)))

	raw, err := a.generator.GenerateJSON(ctx, analyzeSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("analyze resume text: %w", err)
	}

	feedback, err := a.parse(raw)
	if err != nil {
		return nil, err
	}

	if feedback.ParsedText == "" {
		feedback.ParsedText = text
	}

	return feedback, nil
}

func (a *Analyzer) parse(raw string) (*resume.Feedback, error) {
	a.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	feedback, err := parseFeedback(raw)
	if err != nil {
		return nil, err
	}

	a.logger.Info("resume analyzed", zap.Int("overall_score", feedback.OverallScore))
	return feedback, nil
}

func (a *Analyzer) logRequest(kind, prompt string, fields ...zap.Field) {
	fields = append(fields,
		zap.String("request", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)
	a.logger.Debug("gemini generate content request", fields...)
}

func buildAnalyzePrompt(job ai.JobContext, source string) string {
	return render(analyzeTemplate, map[string]string{
		"JOB_TITLE":       sanitizeSingleLine(job.Title),
		"JOB_COMPANY":     sanitizeSingleLine(job.Company),
		"JOB_DESCRIPTION": sanitizeBlock(job.Description, maxJobDescription),
		"RESUME_SOURCE":   source,
	})
}
