package dryrun

import (
	"context"
	"errors"

	"github.com/ksysoev/todo-action/pkg/core"
)

// ErrReadOnly is returned by the write methods of a Fixture
var ErrReadOnly = errors.New("fixture is read-only")

// Fixture serves a fixed diff and fixed snapshots. Wrap it with New to run
// the dispatchers without any network access.
type Fixture struct {
	RawDiff  string
	Existing *core.Snapshot
	Comments *core.Snapshot
}

func (f *Fixture) Diff(_ context.Context, _ core.Target) (string, error) {
	return f.RawDiff, nil
}

func (f *Fixture) Issues(_ context.Context) (*core.Snapshot, error) {
	if f.Existing == nil {
		return &core.Snapshot{Kind: "issues"}, nil
	}
	return f.Existing, nil
}

func (f *Fixture) ReviewComments(_ context.Context, _ int) (*core.Snapshot, error) {
	if f.Comments == nil {
		return &core.Snapshot{Kind: "review comments"}, nil
	}
	return f.Comments, nil
}

func (f *Fixture) CreateIssue(_ context.Context, _ core.IssueRequest) (*core.Artifact, error) {
	return nil, ErrReadOnly
}

func (f *Fixture) SetIssueState(_ context.Context, _ int64, _ core.State) error {
	return ErrReadOnly
}

func (f *Fixture) CreateIssueComment(_ context.Context, _ int64, _ string) error {
	return ErrReadOnly
}

func (f *Fixture) CreateReviewComment(_ context.Context, _ core.ReviewCommentRequest) error {
	return ErrReadOnly
}
