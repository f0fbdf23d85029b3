package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ksysoev/todo-action/pkg/diff"
)

// PullRequestDispatcher announces todos of a pull request as review comments
type PullRequestDispatcher struct {
	svc     Service
	logger  *slog.Logger
	workers int
}

// NewPullRequestDispatcher creates a dispatcher for pull request events
func NewPullRequestDispatcher(svc Service, logger *slog.Logger, workers int) *PullRequestDispatcher {
	return &PullRequestDispatcher{
		svc:     svc,
		logger:  logger.With("trigger", "pull_request"),
		workers: workers,
	}
}

// Run scans the diff of pull request ev.PullRequest. Added todos get a
// review comment on the right side; removed todos that still have an open
// issue get a "may resolve" comment on the left side.
func (d *PullRequestDispatcher) Run(ctx context.Context, cfg *Config, ev Event) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ev.PullRequest <= 0 {
		return nil, fmt.Errorf("pull request number must be positive, got %d", ev.PullRequest)
	}

	raw, err := d.svc.Diff(ctx, Target{Sha: ev.Sha, PullRequest: ev.PullRequest})
	if err != nil {
		return nil, fmt.Errorf("failed to get diff of #%d: %w", ev.PullRequest, err)
	}

	todos, err := Scan(ctx, d.logger, raw, cfg, ev)
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return &Report{}, nil
	}

	comments, err := d.svc.ReviewComments(ctx, ev.PullRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to list review comments of #%d: %w", ev.PullRequest, err)
	}
	if err := checkSnapshot(comments); err != nil {
		return nil, err
	}

	var issues *Snapshot
	if hasDeletions(todos) {
		issues, err = d.svc.Issues(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", err)
		}
		if err := checkSnapshot(issues); err != nil {
			return nil, err
		}
	}

	return dispatch(ctx, d.workers, todos, func(ctx context.Context, todo *Todo) Decision {
		return d.handle(ctx, ev, comments, issues, todo)
	}), nil
}

func (d *PullRequestDispatcher) handle(ctx context.Context, ev Event, comments, issues *Snapshot, todo *Todo) Decision {
	repo := ev.Repository

	if existing := FindAnnounced(comments, todo.Title); existing != nil {
		d.logger.Info("comment already exists", "title", todo.Title, "comment", existing.Number)
		return Decision{Todo: todo, Outcome: OutcomeSkipped, Reason: "already commented", Number: existing.Number}
	}

	text := todo.Body
	side := SideRight
	var resolves int64

	if todo.Type == diff.Del {
		open := FindDuplicate(issues, todo.Title, true)
		if open == nil {
			d.logger.Info("no open issue found", "title", todo.Title)
			return Decision{Todo: todo, Outcome: OutcomeSkipped, Reason: "no open issue"}
		}

		resolves = open.Number
		text = fmt.Sprintf("This PR may resolve #%d", open.Number)
		side = SideLeft
	}

	body, err := RenderComment(repo, todo, ev.PullRequest, text)
	if err != nil {
		return itemFailure(d.logger, repo, "render comment", todo, err)
	}

	d.logger.Info("creating comment", "title", todo.Title, "repo", repo.String(), "pull_request", ev.PullRequest, "line", todo.Line)

	err = d.svc.CreateReviewComment(ctx, ReviewCommentRequest{
		PullRequest: ev.PullRequest,
		CommitSha:   todo.Sha,
		Path:        todo.Filename,
		Line:        todo.Line,
		Side:        side,
		Body:        body,
	})
	if err != nil {
		return itemFailure(d.logger, repo, "create review comment", todo, err)
	}

	return Decision{Todo: todo, Outcome: OutcomeCommented, Number: resolves}
}

func hasDeletions(todos []*Todo) bool {
	for _, t := range todos {
		if t.Type == diff.Del {
			return true
		}
	}
	return false
}
