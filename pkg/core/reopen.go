package core

import (
	"context"
	"fmt"
)

// ReopenOutcome is the transition taken for a found duplicate
type ReopenOutcome int

const (
	// AlreadyOpen means the duplicate is still tracked
	AlreadyOpen ReopenOutcome = iota
	// Suppressed means the duplicate is closed and reopening is disabled
	Suppressed
	// Reopened means the duplicate was reopened and commented on
	Reopened
)

func (o ReopenOutcome) String() string {
	switch o {
	case AlreadyOpen:
		return "already-open"
	case Suppressed:
		return "suppressed"
	case Reopened:
		return "reopened"
	default:
		return "unknown"
	}
}

// Reopen moves a closed duplicate back to open when the config allows it
// and explains why in a comment. Nothing is retried.
func Reopen(ctx context.Context, svc Service, repo Repository, issue *Artifact, todo *Todo) (ReopenOutcome, error) {
	if issue.State != StateClosed {
		return AlreadyOpen, nil
	}
	if todo.Config == nil || !todo.Config.ReopenClosed {
		return Suppressed, nil
	}

	body, err := RenderReopen(repo, todo)
	if err != nil {
		return Suppressed, err
	}

	if err := svc.SetIssueState(ctx, issue.Number, StateOpen); err != nil {
		return Suppressed, fmt.Errorf("failed to reopen issue #%d: %w", issue.Number, err)
	}

	if err := svc.CreateIssueComment(ctx, issue.Number, body); err != nil {
		return Reopened, fmt.Errorf("failed to comment on reopened issue #%d: %w", issue.Number, err)
	}

	return Reopened, nil
}
