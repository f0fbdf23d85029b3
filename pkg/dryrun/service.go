// Package dryrun provides a core.Service that reads through a delegate and
// records writes instead of sending them.
package dryrun

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ksysoev/todo-action/pkg/core"
)

// Op names a recorded write
type Op string

const (
	OpCreateIssue         Op = "create-issue"
	OpSetIssueState       Op = "set-issue-state"
	OpCreateIssueComment  Op = "create-issue-comment"
	OpCreateReviewComment Op = "create-review-comment"
)

// Write is one side effect that would have been performed
type Write struct {
	Op     Op
	Number int64
	Title  string
	Path   string
	Line   int
	Side   core.Side
	State  core.State
	Body   string
}

// Service decorates a core.Service. Reads go to the delegate, writes are
// recorded and answered with placeholder artifacts.
type Service struct {
	delegate core.Service
	logger   *slog.Logger

	mu     sync.Mutex
	writes []Write
	next   int64
}

// New creates a dry-run service reading through delegate
func New(delegate core.Service, logger *slog.Logger) *Service {
	return &Service{
		delegate: delegate,
		logger:   logger.With("dry_run", true),
	}
}

func (s *Service) Diff(ctx context.Context, target core.Target) (string, error) {
	return s.delegate.Diff(ctx, target)
}

func (s *Service) Issues(ctx context.Context) (*core.Snapshot, error) {
	return s.delegate.Issues(ctx)
}

func (s *Service) ReviewComments(ctx context.Context, number int) (*core.Snapshot, error) {
	return s.delegate.ReviewComments(ctx, number)
}

func (s *Service) CreateIssue(_ context.Context, req core.IssueRequest) (*core.Artifact, error) {
	s.mu.Lock()
	s.next++
	number := s.next
	s.writes = append(s.writes, Write{Op: OpCreateIssue, Number: number, Title: req.Title, Body: req.Body})
	s.mu.Unlock()

	s.logger.Info("would create issue", "title", req.Title, "labels", req.Labels, "assignees", req.Assignees)

	return &core.Artifact{Number: number, Title: req.Title, Body: req.Body, State: core.StateOpen}, nil
}

func (s *Service) SetIssueState(_ context.Context, number int64, state core.State) error {
	s.record(Write{Op: OpSetIssueState, Number: number, State: state})
	s.logger.Info("would set issue state", "issue", number, "state", state)
	return nil
}

func (s *Service) CreateIssueComment(_ context.Context, number int64, body string) error {
	s.record(Write{Op: OpCreateIssueComment, Number: number, Body: body})
	s.logger.Info("would comment on issue", "issue", number)
	return nil
}

func (s *Service) CreateReviewComment(_ context.Context, req core.ReviewCommentRequest) error {
	s.record(Write{
		Op:     OpCreateReviewComment,
		Number: int64(req.PullRequest),
		Path:   req.Path,
		Line:   req.Line,
		Side:   req.Side,
		Body:   req.Body,
	})
	s.logger.Info("would comment on pull request", "pull_request", req.PullRequest, "file", req.Path, "line", req.Line, "side", req.Side)
	return nil
}

// Writes returns the recorded writes in call order
func (s *Service) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

func (s *Service) record(w Write) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, w)
}

var _ core.Service = (*Service)(nil)
