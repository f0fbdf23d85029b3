package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ksysoev/todo-action/pkg/diff"
)

// MergeDispatcher files issues for the todos a merged pull request left in
// the code. Candidates come from the markers of the review comments posted
// while the pull request was open.
type MergeDispatcher struct {
	svc     Service
	content ContentReader
	logger  *slog.Logger
	workers int
}

// NewMergeDispatcher creates a dispatcher for merged pull requests
func NewMergeDispatcher(svc Service, content ContentReader, logger *slog.Logger, workers int) *MergeDispatcher {
	return &MergeDispatcher{
		svc:     svc,
		content: content,
		logger:  logger.With("trigger", "merge"),
		workers: workers,
	}
}

// Run looks up every todo announced on pull request ev.PullRequest in the
// tree of the merge commit ev.Sha. Todos still present get an issue, or
// reopen their closed one, as on push.
func (d *MergeDispatcher) Run(ctx context.Context, cfg *Config, ev Event) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ev.PullRequest <= 0 {
		return nil, fmt.Errorf("pull request number must be positive, got %d", ev.PullRequest)
	}

	matcher, err := NewMatcher(cfg.Keywords, cfg.CaseSensitive)
	if err != nil {
		return nil, err
	}
	filter, err := NewFileFilter(cfg.Exclude)
	if err != nil {
		return nil, &ConfigValidationError{Field: "exclude", Reason: err.Error()}
	}

	comments, err := d.svc.ReviewComments(ctx, ev.PullRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to list review comments of #%d: %w", ev.PullRequest, err)
	}
	if err := checkSnapshot(comments); err != nil {
		return nil, err
	}

	candidates := announcedTodos(comments, ev)
	if len(candidates) == 0 {
		d.logger.Debug("no announced todos", "pull_request", ev.PullRequest)
		return &Report{}, nil
	}

	tree, err := d.content.Tree(ctx, ev.Sha)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree of %s: %w", ev.Sha, err)
	}
	if tree.Truncated {
		return nil, &SnapshotTruncatedError{Kind: "tree", Collected: len(tree.Files)}
	}

	issues, err := d.svc.Issues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	if err := checkSnapshot(issues); err != nil {
		return nil, err
	}

	return dispatch(ctx, d.workers, candidates, func(ctx context.Context, todo *Todo) Decision {
		return d.handle(ctx, ev, tree, issues, matcher, filter, cfg, todo)
	}), nil
}

func (d *MergeDispatcher) handle(ctx context.Context, ev Event, tree *Tree, issues *Snapshot, matcher *Matcher, filter *FileFilter, cfg *Config, candidate *Todo) Decision {
	repo := ev.Repository

	blob, ok := tree.Files[candidate.Filename]
	if !ok {
		d.logger.Info("file not in tree", "title", candidate.Title, "file", candidate.Filename)
		return Decision{Todo: candidate, Outcome: OutcomeSkipped, Reason: "file not in tree"}
	}
	if filter.Excluded(candidate.Filename) {
		return Decision{Todo: candidate, Outcome: OutcomeSkipped, Reason: "file excluded"}
	}

	content, err := d.content.Blob(ctx, blob)
	if err != nil {
		return itemFailure(d.logger, repo, "read file", candidate, err)
	}

	if candidate.Username != "" {
		ev.Username = candidate.Username
	}

	todo := findInFile(candidate.Filename, content, matcher, cfg, ev, candidate.Title)
	if todo == nil {
		d.logger.Info("todo no longer in file", "title", candidate.Title, "file", candidate.Filename)
		return Decision{Todo: candidate, Outcome: OutcomeSkipped, Reason: "no longer in file"}
	}

	return fileIssue(ctx, d.svc, d.logger, repo, issues, todo)
}

// announcedTodos turns the markers of a review comment snapshot into
// candidate todos, one per title, in snapshot order.
func announcedTodos(comments *Snapshot, ev Event) []*Todo {
	seen := make(map[string]bool)

	var todos []*Todo
	for _, a := range comments.Artifacts {
		marker, ok := ParseMarker(a.Body)
		if !ok || marker.Title == "" || marker.File == "" || seen[marker.Title] {
			continue
		}
		seen[marker.Title] = true

		todos = append(todos, &Todo{
			Title:    marker.Title,
			Filename: marker.File,
			Username: marker.Author,
			Sha:      ev.Sha,
			Type:     diff.Add,
		})
	}

	return todos
}

// findInFile scans a whole file as if every line was added and returns the
// first todo titled title.
func findInFile(path, content string, matcher *Matcher, cfg *Config, ev Event, title string) *Todo {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	chunk := diff.Chunk{NewStart: 1, NewLines: len(lines), Changes: make([]diff.Change, len(lines))}
	for i, line := range lines {
		chunk.Changes[i] = diff.Change{Type: diff.Add, Content: strings.TrimSuffix(line, "\r"), NewLine: i + 1}
	}

	file := &diff.File{Path: path, OldPath: path, Chunks: []diff.Chunk{chunk}}

	// Every other todo of the file is found too; only the announced one matters.
	for _, todo := range scanFile(slog.New(slog.DiscardHandler), file, matcher, cfg, ev) {
		if todo.Title == title {
			return todo
		}
	}

	return nil
}
