package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ksysoev/todo-action/pkg/action"
	"github.com/ksysoev/todo-action/pkg/core"
	"github.com/ksysoev/todo-action/pkg/dryrun"
	"github.com/ksysoev/todo-action/pkg/logging"
)

// options stores the flags of a local scan
type options struct {
	DiffPath     string
	ConfigPath   string
	Trigger      string
	Repository   string
	Sha          string
	Author       string
	PullRequest  int
	IssuesPath   string
	CommentsPath string
	Workers      int
}

// newRootCommand builds the scan command. Nothing it does touches the network.
func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "todo-scan",
		Short: "Run the todo engine over a local diff",
		Long: "todo-scan reads a unified diff, finds the todo comments it adds or removes and prints " +
			"the issues and review comments the action would create, given optional snapshots of existing ones.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			logger := logging.NewLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.DiffPath, "diff", "d", "", "Path to a unified diff (required)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a config file with a todo section")
	cmd.Flags().StringVar(&opts.Trigger, "trigger", string(action.TriggerPush), "Trigger to simulate (push, pull_request)")
	cmd.Flags().StringVar(&opts.Repository, "repo", "local/repository", "Repository slug used in rendered links")
	cmd.Flags().StringVar(&opts.Sha, "sha", "HEAD", "Commit sha used in rendered links")
	cmd.Flags().StringVar(&opts.Author, "author", "", "Username the todos are attributed to")
	cmd.Flags().IntVar(&opts.PullRequest, "pr", 0, "Pull request number, required for the pull_request trigger")
	cmd.Flags().StringVar(&opts.IssuesPath, "issues", "", "YAML or JSON list of existing issues")
	cmd.Flags().StringVar(&opts.CommentsPath, "comments", "", "YAML or JSON list of existing review comments")
	cmd.Flags().IntVar(&opts.Workers, "workers", core.DefaultWorkers, "Number of todos dispatched at once")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	_ = cmd.MarkFlagRequired("diff")

	return cmd
}

func runScan(cmd *cobra.Command, opts *options) error {
	logger := loggerFromContext(cmd.Context())

	repo, err := core.ParseRepository(opts.Repository)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(opts.DiffPath)
	if err != nil {
		return fmt.Errorf("failed to read diff: %w", err)
	}

	fixture := &dryrun.Fixture{RawDiff: string(raw)}
	if opts.IssuesPath != "" {
		if fixture.Existing, err = dryrun.LoadSnapshot(opts.IssuesPath, "issues"); err != nil {
			return err
		}
	}
	if opts.CommentsPath != "" {
		if fixture.Comments, err = dryrun.LoadSnapshot(opts.CommentsPath, "review comments"); err != nil {
			return err
		}
	}

	svc := dryrun.New(fixture, logger)
	ev := core.Event{
		Repository:  repo,
		Sha:         opts.Sha,
		Username:    opts.Author,
		PullRequest: opts.PullRequest,
	}

	var report *core.Report
	switch action.Trigger(opts.Trigger) {
	case action.TriggerPush:
		report, err = core.NewPushDispatcher(svc, logger, opts.Workers).Run(cmd.Context(), cfg, ev)
	case action.TriggerPullRequest:
		report, err = core.NewPullRequestDispatcher(svc, logger, opts.Workers).Run(cmd.Context(), cfg, ev)
	default:
		return fmt.Errorf("unknown trigger %q, expected push or pull_request", opts.Trigger)
	}
	if err != nil {
		return err
	}

	dryrun.PrintReport(cmd.OutOrStdout(), report, svc.Writes())

	if n := report.Count(core.OutcomeFailed); n > 0 {
		return fmt.Errorf("%d todos failed", n)
	}

	return nil
}

func loadConfig(path string) (*core.Config, error) {
	if path == "" {
		return core.DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := core.ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return cfg, nil
}

type loggerKey struct{}

func loggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, slog.LevelInfo)
}
