package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ksysoev/todo-action/pkg/diff"
)

// PushDispatcher turns todos added by a pushed commit into issues
type PushDispatcher struct {
	svc     Service
	logger  *slog.Logger
	workers int
}

// NewPushDispatcher creates a dispatcher for push events
func NewPushDispatcher(svc Service, logger *slog.Logger, workers int) *PushDispatcher {
	return &PushDispatcher{
		svc:     svc,
		logger:  logger.With("trigger", "push"),
		workers: workers,
	}
}

// Run scans the diff of ev.Sha and creates, skips or reopens an issue for
// every added todo. Only config, diff and snapshot failures are returned;
// per-todo failures are part of the report.
func (d *PushDispatcher) Run(ctx context.Context, cfg *Config, ev Event) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	raw, err := d.svc.Diff(ctx, Target{Sha: ev.Sha})
	if err != nil {
		return nil, fmt.Errorf("failed to get diff of %s: %w", ev.Sha, err)
	}

	todos, err := Scan(ctx, d.logger, raw, cfg, ev)
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return &Report{}, nil
	}

	issues, err := d.svc.Issues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	if err := checkSnapshot(issues); err != nil {
		return nil, err
	}

	return dispatch(ctx, d.workers, todos, func(ctx context.Context, todo *Todo) Decision {
		return d.handle(ctx, ev.Repository, issues, todo)
	}), nil
}

func (d *PushDispatcher) handle(ctx context.Context, repo Repository, issues *Snapshot, todo *Todo) Decision {
	// Removing a comment in a push does not resolve anything.
	if todo.Type == diff.Del {
		return Decision{Todo: todo, Outcome: OutcomeSkipped, Reason: "deletion"}
	}

	return fileIssue(ctx, d.svc, d.logger, repo, issues, todo)
}

// fileIssue reopens or skips the existing issue of todo, or creates one when
// the snapshot has none.
func fileIssue(ctx context.Context, svc Service, logger *slog.Logger, repo Repository, issues *Snapshot, todo *Todo) Decision {
	if existing := FindDuplicate(issues, todo.Title, false); existing != nil {
		logger.Info("duplicate issue found", "title", todo.Title, "issue", existing.Number, "state", existing.State)

		outcome, err := Reopen(ctx, svc, repo, existing, todo)
		if err != nil {
			return itemFailure(logger, repo, "reopen issue", todo, err)
		}
		if outcome == Reopened {
			return Decision{Todo: todo, Outcome: OutcomeReopened, Number: existing.Number}
		}
		return Decision{Todo: todo, Outcome: OutcomeSkipped, Reason: "duplicate " + outcome.String(), Number: existing.Number}
	}

	body, err := RenderIssue(repo, todo)
	if err != nil {
		return itemFailure(logger, repo, "render issue", todo, err)
	}

	logger.Info("creating issue", "title", todo.Title, "repo", repo.String())

	issue, err := svc.CreateIssue(ctx, IssueRequest{
		Title:     todo.Title,
		Body:      body,
		Labels:    todo.Labels,
		Assignees: todo.Assignees,
	})
	if err != nil {
		return itemFailure(logger, repo, "create issue", todo, err)
	}

	return Decision{Todo: todo, Outcome: OutcomeCreated, Number: issue.Number}
}
