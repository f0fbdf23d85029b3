package core

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ksysoev/todo-action/pkg/diff"
)

// Event carries the trigger details shared by every todo of a change set
type Event struct {
	Repository  Repository
	Sha         string
	Username    string
	PullRequest int
}

// Scan parses a raw diff and returns the todos it introduces or removes, in
// diff order. Files are scanned concurrently. An unparsable diff is logged
// and yields no todos.
func Scan(ctx context.Context, logger *slog.Logger, raw string, cfg *Config, ev Event) ([]*Todo, error) {
	files, err := diff.Parse(raw)
	if err != nil {
		var perr *diff.ParseError
		if errors.As(err, &perr) {
			logger.Warn("diff could not be parsed, nothing to scan", "sha", ev.Sha, "error", err)
			return nil, nil
		}
		return nil, err
	}

	return ScanFiles(ctx, logger, files, cfg, ev)
}

// ScanFiles runs the keyword matcher over already parsed files
func ScanFiles(ctx context.Context, logger *slog.Logger, files []diff.File, cfg *Config, ev Event) ([]*Todo, error) {
	matcher, err := NewMatcher(cfg.Keywords, cfg.CaseSensitive)
	if err != nil {
		return nil, err
	}

	filter, err := NewFileFilter(cfg.Exclude)
	if err != nil {
		return nil, &ConfigValidationError{Field: "exclude", Reason: err.Error()}
	}

	perFile := make([][]*Todo, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			file := &files[i]
			if filter.Excluded(file.Path) {
				logger.Debug("file excluded", "file", file.Path)
				return nil
			}

			perFile[i] = scanFile(logger, file, matcher, cfg, ev)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var todos []*Todo
	for _, t := range perFile {
		todos = append(todos, t...)
	}

	return todos, nil
}

func scanFile(logger *slog.Logger, file *diff.File, matcher *Matcher, cfg *Config, ev Event) []*Todo {
	var todos []*Todo

	lang := GetLanguageForFile(file.Path)
	labels := cfg.Labels()
	assignees, assignedTo := cfg.Assign(ev.Username)

	for _, chunk := range file.Chunks {
		for index, change := range chunk.Changes {
			// Only lines that were added or removed can introduce or resolve an item.
			if change.Type == diff.Context {
				continue
			}

			match, ok := matcher.Match(change.Content)
			if !ok {
				continue
			}

			title, _ := trimBlockEnd(match.Title, lang)
			valid, reason := CheckTitle(title)
			if !valid {
				if reason != "" {
					logger.Info("item found but the title was too short", "title", title, "file", file.Path, "line", change.Line())
				}
				continue
			}

			line := change.Line()
			todo := &Todo{
				Keyword:    match.Keyword,
				Title:      title,
				Body:       extractBody(chunk.Changes, index, match, lang, matcher, cfg.BodyKeywords),
				Filename:   file.Path,
				Line:       line,
				Range:      lineRange(chunk, change.Type, line, cfg.BlobLines),
				Sha:        ev.Sha,
				Username:   ev.Username,
				Type:       change.Type,
				Assignees:  assignees,
				AssignedTo: assignedTo,
				Labels:     labels,
				Config:     cfg,
			}

			logger.Info("item found", "title", title, "repo", ev.Repository.String(), "sha", ev.Sha, "file", file.Path, "line", line)
			todos = append(todos, todo)
		}
	}

	return todos
}
