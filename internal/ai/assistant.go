package ai

import (
	"context"
	"errors"

	"github.com/spigell/resume-fixer/internal/resume"
)

// ErrFixGenerationFailed wraps every failure to obtain a usable fix from the model.
var ErrFixGenerationFailed = errors.New("fix generation failed")

type JobContext = resume.Job

type FixRequest struct {
	Issue       string
	Explanation string
	Category    string
	Job         *JobContext
	// ResumeContext is the current resume text, already excerpted to the prompt budget.
	ResumeContext string
}

type FixResult struct {
	Improved    string
	Explanation string
	// OriginalSnippet is the text the model wants replaced. It may be empty or
	// may not occur verbatim in the document.
	OriginalSnippet string
	Raw             string
}

type Fixer interface {
	Fix(ctx context.Context, req FixRequest) (*FixResult, error)
}

type Analyzer interface {
	AnalyzePDF(ctx context.Context, pdf []byte, job JobContext) (*resume.Feedback, error)
	AnalyzeText(ctx context.Context, text string, job JobContext) (*resume.Feedback, error)
}

type Describer interface {
	DescribeJob(ctx context.Context, title, company string) (string, error)
}
