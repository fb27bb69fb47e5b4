package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/ai"
)

// Describer drafts a job description when the user has none at hand.
type Describer struct {
	generator contentGenerator
	logger    *zap.Logger
}

var _ ai.Describer = (*Describer)(nil)

func NewDescriber(generator contentGenerator, logger *zap.Logger) *Describer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Describer{generator: generator, logger: logger}
}

func (d *Describer) DescribeJob(ctx context.Context, title, company string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("job title is required")
	}

	companyClause := ""
	if company = sanitizeSingleLine(company); company != placeholderNone {
		companyClause = fmt.Sprintf(" at %q", company)
	}

	prompt := render(describeTemplate, map[string]string{
		"JOB_TITLE":      sanitizeSingleLine(title),
		"COMPANY_CLAUSE": companyClause,
	})

	d.logger.Debug("gemini generate content request", zap.String("request", "describe"), zap.String("job_title", title))

	text, err := d.generator.GenerateContent(ctx, "", prompt)
	if err != nil {
		return "", fmt.Errorf("generate job description: %w", err)
	}

	return strings.TrimSpace(text), nil
}
