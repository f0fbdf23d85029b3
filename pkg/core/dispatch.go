package core

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds the number of todos dispatched at once
const DefaultWorkers = 8

// Outcome is what a dispatcher did with a todo
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeCommented Outcome = "commented"
	OutcomeReopened  Outcome = "reopened"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Decision records the outcome for one todo
type Decision struct {
	Todo    *Todo
	Outcome Outcome
	Reason  string
	Number  int64
	Err     error
}

// Report is the result of one invocation, decisions in diff order
type Report struct {
	Decisions []Decision
}

// Count returns the number of decisions with the given outcome
func (r *Report) Count(o Outcome) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, d := range r.Decisions {
		if d.Outcome == o {
			n++
		}
	}
	return n
}

// Errors returns the per-item errors of the run
func (r *Report) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, d := range r.Decisions {
		if d.Err != nil {
			errs = append(errs, d.Err)
		}
	}
	return errs
}

// dispatch runs handle for every todo on a bounded pool and waits for all of
// them. Handlers report failures in their Decision, so one failed todo never
// stops its siblings.
func dispatch(ctx context.Context, workers int, todos []*Todo, handle func(context.Context, *Todo) Decision) *Report {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	decisions := make([]Decision, len(todos))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, todo := range todos {
		g.Go(func() error {
			decisions[i] = handle(ctx, todo)
			return nil
		})
	}
	_ = g.Wait()

	return &Report{Decisions: decisions}
}

// itemFailure builds the failed decision for a todo and logs it with enough
// context to reconcile by hand.
func itemFailure(logger *slog.Logger, repo Repository, op string, todo *Todo, err error) Decision {
	itemErr := &ItemError{
		Op:         op,
		Title:      todo.Title,
		Repository: repo.String(),
		File:       todo.Filename,
		Line:       todo.Line,
		Err:        err,
	}

	logger.Error("failed to "+op, "title", todo.Title, "repo", repo.String(), "file", todo.Filename, "line", todo.Line, "error", err)

	return Decision{Todo: todo, Outcome: OutcomeFailed, Err: itemErr}
}
