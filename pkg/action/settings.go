// Package action runs the engine inside a GitHub Actions workflow.
package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sethvargo/go-githubactions"

	"github.com/ksysoev/todo-action/pkg/core"
	"github.com/ksysoev/todo-action/pkg/github"
)

// Settings are the tunables of one action run
type Settings struct {
	Token      string `env:"GITHUB_TOKEN"`
	ConfigPath string `env:"TODO_CONFIG_PATH" envDefault:".github/config.yml"`
	Workers    int    `env:"TODO_WORKERS" envDefault:"8"`
	MaxPages   int    `env:"TODO_MAX_PAGES" envDefault:"50"`
	DryRun     bool   `env:"TODO_DRY_RUN"`
	LogLevel   string `env:"TODO_LOG_LEVEL" envDefault:"debug"`
}

// LoadSettings reads the environment and lets action inputs override it.
// A nil environ means the process environment.
func LoadSettings(action *githubactions.Action, environ map[string]string) (*Settings, error) {
	s, err := env.ParseAsWithOptions[Settings](env.Options{Environment: environ})
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if v := strings.TrimSpace(action.GetInput("github_token")); v != "" {
		s.Token = v
	}
	if v := strings.TrimSpace(action.GetInput("config_path")); v != "" {
		s.ConfigPath = v
	}
	if v := strings.TrimSpace(action.GetInput("dry_run")); v != "" {
		dryRun, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid dry_run input %q: %w", v, err)
		}
		s.DryRun = dryRun
	}

	if s.Token == "" {
		return nil, fmt.Errorf("github_token input is required")
	}
	if s.Workers <= 0 {
		s.Workers = core.DefaultWorkers
	}
	if s.MaxPages <= 0 {
		s.MaxPages = github.DefaultMaxPages
	}

	return &s, nil
}
