// Package editor runs one resume editing session: manual edits, AI fix
// requests, and the review of proposed fixes before they touch the document.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/ai"
	"github.com/spigell/resume-fixer/internal/logger"
	"github.com/spigell/resume-fixer/internal/resume"
	"github.com/spigell/resume-fixer/internal/review"
	"github.com/spigell/resume-fixer/internal/textpatch"
	"github.com/spigell/resume-fixer/internal/utils"
)

// ErrReadOnly is returned by Edit while a proposed change awaits a decision.
var ErrReadOnly = errors.New("document is read-only while a change is pending")

// ErrEmptyDocument is returned by Edit for blank text. A blank stored text
// would be replaced by the analyzer's reconstruction on the next load.
var ErrEmptyDocument = errors.New("document must not be empty")

const DefaultResumeContextLimit = 15000

// TextSaver persists the editable text of a record.
type TextSaver interface {
	UpdateParsedText(ctx context.Context, id, text string) error
}

// FeedbackSaver persists a fresh analysis of a record.
type FeedbackSaver interface {
	UpdateFeedback(ctx context.Context, id string, feedback *resume.Feedback, parsedText string) error
}

type Config struct {
	// ResumeContextLimit caps the resume text sent with fix requests, in runes.
	ResumeContextLimit int `mapstructure:"resume-context-limit"`
}

type Deps struct {
	Record   *resume.Record
	Fixer    ai.Fixer
	Analyzer ai.Analyzer
	Texts    TextSaver
	Feedback FeedbackSaver
	Locator  *textpatch.Locator
	Logger   *zap.Logger
}

type Session struct {
	record   *resume.Record
	document string
	feedback *resume.Feedback

	workflow *review.Workflow
	locator  *textpatch.Locator

	fixer     ai.Fixer
	analyzer  ai.Analyzer
	texts     TextSaver
	feedbacks FeedbackSaver

	contextLimit int
	logger       *zap.Logger
}

func NewSession(cfg *Config, deps *Deps) (*Session, error) {
	if deps == nil || deps.Record == nil {
		return nil, errors.New("editor session requires a record")
	}

	limit := DefaultResumeContextLimit
	if cfg != nil && cfg.ResumeContextLimit > 0 {
		limit = cfg.ResumeContextLimit
	}

	log := logger.WithRecord(deps.Logger, deps.Record.ID)

	locator := deps.Locator
	if locator == nil {
		locator = textpatch.NewLocator()
	}

	s := &Session{
		record:       deps.Record,
		document:     deps.Record.Document(),
		feedback:     deps.Record.Feedback,
		locator:      locator,
		fixer:        deps.Fixer,
		analyzer:     deps.Analyzer,
		texts:        deps.Texts,
		feedbacks:    deps.Feedback,
		contextLimit: limit,
		logger:       log,
	}

	s.workflow = review.NewWorkflow(&review.WorkflowDeps{
		Resolved: review.NewResolvedTags(),
		OnAccept: s.persistText,
		Logger:   log,
	})

	return s, nil
}

func (s *Session) RecordID() string {
	return s.record.ID
}

func (s *Session) Document() string {
	return s.document
}

func (s *Session) Feedback() *resume.Feedback {
	return s.feedback
}

func (s *Session) Workflow() *review.Workflow {
	return s.workflow
}

// Edit replaces the document with text typed by the user and persists it.
func (s *Session) Edit(ctx context.Context, text string) error {
	if s.workflow.ReadOnly() {
		return ErrReadOnly
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyDocument
	}

	s.document = text
	if err := s.persistText(ctx, text); err != nil {
		return fmt.Errorf("save edited text: %w", err)
	}
	return nil
}

// OpenTips lists the improvable tips not yet addressed in this session.
func (s *Session) OpenTips() []resume.OpenTip {
	return resume.OpenTips(s.feedback, s.workflow.Resolved())
}

// RequestFix asks the fixer for replacement text addressing tip. Calling it
// again for the same tip regenerates the suggestion.
func (s *Session) RequestFix(ctx context.Context, tip resume.OpenTip) (*ai.FixResult, error) {
	if s.fixer == nil {
		return nil, fmt.Errorf("%w: no fixer configured", ai.ErrFixGenerationFailed)
	}

	job := s.record.Job()
	result, err := s.fixer.Fix(ctx, ai.FixRequest{
		Issue:         tip.Tip.Tip,
		Explanation:   tip.Tip.Explanation,
		Category:      tip.Category.Label(),
		Job:           &job,
		ResumeContext: utils.Excerpt(s.document, s.contextLimit),
	})
	if err != nil {
		if !errors.Is(err, ai.ErrFixGenerationFailed) {
			err = fmt.Errorf("%w: %w", ai.ErrFixGenerationFailed, err)
		}
		s.logger.Warn("fix generation failed", logger.Tag(tip.Tag()), zap.Error(err))
		return nil, err
	}

	if result.OriginalSnippet == "" {
		result.OriginalSnippet = tip.Snippet()
	}

	return result, nil
}

// ApplyFix locates the fix's OriginalSnippet and proposes the replacement.
// A fix that quotes nothing is never matched against the tip text.
// textpatch.ErrNotFound means the user has to edit by hand.
func (s *Session) ApplyFix(fix *ai.FixResult, tag string) (review.PendingChange, error) {
	if fix == nil {
		return review.PendingChange{}, errors.New("fix is required")
	}

	snippet := strings.TrimSpace(fix.OriginalSnippet)
	if snippet == "" {
		s.logger.Info("fix quotes no resume text", logger.Tag(tag))
		return review.PendingChange{}, textpatch.ErrNotFound
	}

	patch, match, err := s.locator.LocateAndPatch(s.document, snippet, fix.Improved)
	if err != nil {
		if errors.Is(err, textpatch.ErrInvalidSpan) {
			s.logger.Error("locator returned a span outside the document", logger.Tag(tag), zap.Error(err))
		} else {
			s.logger.Info("could not locate fix target", logger.Tag(tag), zap.String("snippet", utils.TruncateForLog(snippet, 80)))
		}
		return review.PendingChange{}, err
	}

	s.logger.Debug("fix target located",
		logger.Tag(tag),
		zap.String("strategy", match.Strategy),
		zap.Stringer("span", match.Span),
	)

	return s.workflow.Propose(s.document, patch, tag), nil
}

// Accept commits the pending change. Persisting it is best effort.
func (s *Session) Accept(ctx context.Context) (string, error) {
	doc, err := s.workflow.Accept(ctx)
	if err != nil {
		return "", err
	}
	s.document = doc
	return doc, nil
}

func (s *Session) Reject() (string, error) {
	doc, err := s.workflow.Reject()
	if err != nil {
		return "", err
	}
	s.document = doc
	return doc, nil
}

// Reanalyze scores the current document again and stores the new feedback.
// Tips resolved earlier in the session stay hidden.
func (s *Session) Reanalyze(ctx context.Context) (*resume.Feedback, error) {
	if s.workflow.ReadOnly() {
		return nil, ErrReadOnly
	}
	if s.analyzer == nil {
		return nil, errors.New("no analyzer configured")
	}

	feedback, err := s.analyzer.AnalyzeText(ctx, s.document, s.record.Job())
	if err != nil {
		return nil, fmt.Errorf("reanalyze resume: %w", err)
	}

	s.feedback = feedback
	s.record.Feedback = feedback

	if s.feedbacks != nil {
		if err := s.feedbacks.UpdateFeedback(ctx, s.record.ID, feedback, s.document); err != nil {
			return feedback, fmt.Errorf("save feedback: %w", err)
		}
	}

	s.logger.Info("resume reanalyzed", zap.Int("overall_score", feedback.OverallScore))
	return feedback, nil
}

func (s *Session) persistText(ctx context.Context, doc string) error {
	s.record.ParsedText = doc
	if s.texts == nil {
		return nil
	}
	return s.texts.UpdateParsedText(ctx, s.record.ID, doc)
}
