// Package review holds a single AI-proposed edit until the user accepts or
// rejects it. The proposal never touches the authoritative document until it
// is accepted.
package review

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/resume-fixer/internal/logger"
	"github.com/spigell/resume-fixer/internal/textpatch"
)

// ErrNoPendingChange is returned by Accept and Reject when nothing is proposed.
var ErrNoPendingChange = errors.New("no pending change")

type State int

const (
	Idle State = iota
	Proposed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Proposed:
		return "proposed"
	default:
		return "unknown"
	}
}

// PendingChange is a proposed but unconfirmed document replacement.
// Selection is valid against AppliedContent, never against OriginalContent.
type PendingChange struct {
	AppliedContent  string
	OriginalContent string
	Selection       textpatch.Span
	// Tag identifies the suggestion that produced the change. Empty means none.
	Tag string
}

// AcceptHook runs after a change is accepted, with the new document.
// Its failure is logged and never undoes the acceptance.
type AcceptHook func(ctx context.Context, document string) error

// Workflow is a single-slot pending-change state machine: Idle -> Proposed
// -> Idle through Accept or Reject. A new proposal replaces an unresolved one.
// A Workflow belongs to exactly one editing session and is not safe for
// concurrent use.
type Workflow struct {
	pending  *PendingChange
	resolved *ResolvedTags
	onAccept AcceptHook
	logger   *zap.Logger
}

type WorkflowDeps struct {
	Resolved *ResolvedTags
	OnAccept AcceptHook
	Logger   *zap.Logger
}

func NewWorkflow(deps *WorkflowDeps) *Workflow {
	w := &Workflow{}
	if deps != nil {
		w.resolved = deps.Resolved
		w.onAccept = deps.OnAccept
		w.logger = deps.Logger
	}

	if w.resolved == nil {
		w.resolved = NewResolvedTags()
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}

	return w
}

func (w *Workflow) State() State {
	if w.pending == nil {
		return Idle
	}
	return Proposed
}

// ReadOnly reports whether the document must not be edited by hand because a
// proposal is waiting for a decision.
func (w *Workflow) ReadOnly() bool {
	return w.pending != nil
}

func (w *Workflow) Pending() (PendingChange, bool) {
	if w.pending == nil {
		return PendingChange{}, false
	}
	return *w.pending, true
}

func (w *Workflow) Resolved() *ResolvedTags {
	return w.resolved
}

// Propose stores patch as the pending change for current, replacing any
// earlier unresolved proposal.
func (w *Workflow) Propose(current string, patch textpatch.Patch, tag string) PendingChange {
	if prev := w.pending; prev != nil {
		w.logger.Debug("replacing unresolved proposal",
			zap.String("previous_tag", prev.Tag),
			logger.Tag(tag),
		)
	}

	change := PendingChange{
		AppliedContent:  patch.NewDocument,
		OriginalContent: current,
		Selection:       patch.NewSpan,
		Tag:             tag,
	}
	w.pending = &change

	w.logger.Debug("change proposed",
		logger.Tag(tag),
		zap.Int("selection_start", change.Selection.Start),
		zap.Int("selection_end", change.Selection.End),
	)

	return change
}

// Accept commits the pending change and returns the new authoritative
// document. The tag, if any, is marked resolved and the accept hook is run
// after the workflow is back to Idle.
func (w *Workflow) Accept(ctx context.Context) (string, error) {
	if w.pending == nil {
		return "", ErrNoPendingChange
	}

	change := *w.pending
	w.pending = nil
	w.resolved.Mark(change.Tag)

	w.logger.Info("change accepted", logger.Tag(change.Tag))

	if w.onAccept != nil {
		if err := w.onAccept(ctx, change.AppliedContent); err != nil {
			w.logger.Warn("persisting accepted change failed; keeping it in memory",
				logger.Tag(change.Tag),
				zap.Error(err),
			)
		}
	}

	return change.AppliedContent, nil
}

// Reject drops the pending change and returns the document as it was before the proposal.
func (w *Workflow) Reject() (string, error) {
	if w.pending == nil {
		return "", ErrNoPendingChange
	}

	change := *w.pending
	w.pending = nil

	w.logger.Info("change rejected", logger.Tag(change.Tag))

	return change.OriginalContent, nil
}
