package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/ai"
	"github.com/spigell/resume-fixer/internal/utils"
)

const resumeContextMissing = "Not available"

// Fixer asks the model for replacement text addressing a single tip.
type Fixer struct {
	generator    contentGenerator
	logger       *zap.Logger
	maxLogLen    int
	instructions string
}

var _ ai.Fixer = (*Fixer)(nil)

func NewFixer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Fixer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fixer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// SetInstructions sets advisory user preferences added to every fix prompt.
func (f *Fixer) SetInstructions(instructions string) {
	f.instructions = instructions
}

func (f *Fixer) Fix(ctx context.Context, req ai.FixRequest) (*ai.FixResult, error) {
	if strings.TrimSpace(req.Issue) == "" {
		return nil, fmt.Errorf("%w: issue is required", ai.ErrFixGenerationFailed)
	}

	prompt := buildFixPrompt(req, f.instructions)

	f.logger.Debug("gemini generate content request",
		zap.String("request", "fix"),
		zap.String("issue", req.Issue),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, f.maxLogLen)),
	)

	raw, err := f.generator.GenerateJSON(ctx, fixSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrFixGenerationFailed, err)
	}

	f.logger.Debug("gemini generate content response",
		zap.String("issue", req.Issue),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, f.maxLogLen)),
	)

	result, err := parseFix(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrFixGenerationFailed, err)
	}

	return result, nil
}

func buildFixPrompt(req ai.FixRequest, instructions string) string {
	title, description := placeholderNone, placeholderNone
	if req.Job != nil {
		title = sanitizeSingleLine(req.Job.Title)
		description = sanitizeBlock(req.Job.Description, maxJobDescription)
	}

	resumeContext := strings.TrimSpace(req.ResumeContext)
	if resumeContext == "" {
		resumeContext = resumeContextMissing
	}

	return render(fixTemplate, map[string]string{
		"CATEGORY":          sanitizeSingleLine(req.Category),
		"ISSUE":             sanitizeSingleLine(req.Issue),
		"DETAILS":           sanitizeSingleLine(req.Explanation),
		"JOB_TITLE":         title,
		"JOB_DESCRIPTION":   description,
		"USER_INSTRUCTIONS": sanitizeUserInstructions(instructions),
		"RESUME_CONTEXT":    resumeContext,
	})
}
