package main

import (
	"context"
	"os"

	"github.com/sethvargo/go-githubactions"

	"github.com/ksysoev/todo-action/pkg/action"
	"github.com/ksysoev/todo-action/pkg/core"
	"github.com/ksysoev/todo-action/pkg/github"
	"github.com/ksysoev/todo-action/pkg/logging"
)

func main() {
	gha := githubactions.New()
	ctx := context.Background()

	settings, err := action.LoadSettings(gha, nil)
	if err != nil {
		gha.Fatalf("%v", err)
	}

	logger := logging.NewActionLogger(gha, logging.ParseLevel(settings.LogLevel))

	ghCtx, err := gha.Context()
	if err != nil {
		gha.Fatalf("Failed to read workflow context: %v", err)
	}

	repo, err := core.ParseRepository(ghCtx.Repository)
	if err != nil {
		gha.Fatalf("GITHUB_REPOSITORY: %v", err)
	}

	payload, err := os.ReadFile(ghCtx.EventPath)
	if err != nil {
		gha.Fatalf("Failed to read event payload: %v", err)
	}

	client := github.NewClient(settings.Token, repo, logger, settings.MaxPages)

	report, err := action.NewRunner(client, logger, settings).Run(ctx, ghCtx.EventName, payload)
	if err != nil {
		gha.Fatalf("%v", err)
	}

	action.SetOutputs(gha, report)

	if n := report.Count(core.OutcomeFailed); n > 0 {
		gha.Fatalf("%d of %d todos failed", n, len(report.Decisions))
	}

	gha.Infof("Done: %d created, %d reopened, %d commented, %d skipped",
		report.Count(core.OutcomeCreated),
		report.Count(core.OutcomeReopened),
		report.Count(core.OutcomeCommented),
		report.Count(core.OutcomeSkipped))
}
