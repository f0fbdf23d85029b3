package action

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sethvargo/go-githubactions"

	"github.com/ksysoev/todo-action/pkg/core"
	"github.com/ksysoev/todo-action/pkg/dryrun"
)

// Client is what a run needs from the hosting service
type Client interface {
	core.Service
	core.ContentReader
	Config(ctx context.Context, path, ref string) ([]byte, error)
	IsMergeCommit(ctx context.Context, sha string) (bool, error)
	IsMerged(ctx context.Context, number int) (bool, error)
	EnsureLabels(ctx context.Context, labels []string) error
}

// Runner routes one event to the matching dispatcher
type Runner struct {
	client   Client
	logger   *slog.Logger
	settings *Settings
}

// NewRunner creates a runner
func NewRunner(client Client, logger *slog.Logger, settings *Settings) *Runner {
	return &Runner{
		client:   client,
		logger:   logger,
		settings: settings,
	}
}

// Run handles a single webhook event. Skipped events yield an empty report.
func (r *Runner) Run(ctx context.Context, eventName string, payload []byte) (*core.Report, error) {
	inv, err := Decode(eventName, payload)
	if err != nil {
		return nil, err
	}
	if inv.Skip != "" {
		r.logger.Info("nothing to do", "event", eventName, "reason", inv.Skip)
		return &core.Report{}, nil
	}

	switch inv.Trigger {
	case TriggerPush:
		merge, err := r.client.IsMergeCommit(ctx, inv.Event.Sha)
		if err != nil {
			return nil, err
		}
		if merge {
			r.logger.Info("nothing to do", "event", eventName, "reason", "merge commit", "sha", inv.Event.Sha)
			return &core.Report{}, nil
		}
	case TriggerMerge:
		merged, err := r.client.IsMerged(ctx, inv.Event.PullRequest)
		if err != nil {
			return nil, err
		}
		if !merged {
			r.logger.Info("nothing to do", "event", eventName, "reason", "pull request not merged", "pull_request", inv.Event.PullRequest)
			return &core.Report{}, nil
		}
	}

	cfg, err := r.loadConfig(ctx, inv.Event.Sha)
	if err != nil {
		return nil, err
	}

	var svc core.Service = r.client
	if r.settings.DryRun {
		svc = dryrun.New(r.client, r.logger)
	} else if labels := cfg.Labels(); len(labels) > 0 {
		if err := r.client.EnsureLabels(ctx, labels); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("dispatching", "trigger", inv.Trigger, "repo", inv.Event.Repository.String(), "sha", inv.Event.Sha, "pull_request", inv.Event.PullRequest)

	switch inv.Trigger {
	case TriggerPush:
		return core.NewPushDispatcher(svc, r.logger, r.settings.Workers).Run(ctx, cfg, inv.Event)
	case TriggerPullRequest:
		return core.NewPullRequestDispatcher(svc, r.logger, r.settings.Workers).Run(ctx, cfg, inv.Event)
	case TriggerMerge:
		// Content reads go to the client directly; only writes are simulated.
		return core.NewMergeDispatcher(svc, r.client, r.logger, r.settings.Workers).Run(ctx, cfg, inv.Event)
	default:
		return nil, fmt.Errorf("unknown trigger %q", inv.Trigger)
	}
}

func (r *Runner) loadConfig(ctx context.Context, ref string) (*core.Config, error) {
	data, err := r.client.Config(ctx, r.settings.ConfigPath, ref)
	if err != nil {
		return nil, err
	}

	cfg, err := core.ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", r.settings.ConfigPath, err)
	}

	return cfg, nil
}

var outcomes = []core.Outcome{
	core.OutcomeCreated,
	core.OutcomeReopened,
	core.OutcomeCommented,
	core.OutcomeSkipped,
	core.OutcomeFailed,
}

// SetOutputs publishes the per-outcome counts as step outputs
func SetOutputs(action *githubactions.Action, report *core.Report) {
	for _, o := range outcomes {
		action.SetOutput(string(o), strconv.Itoa(report.Count(o)))
	}
}
