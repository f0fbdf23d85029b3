package dryrun

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ksysoev/todo-action/pkg/core"
)

// LoadSnapshot reads a YAML or JSON list of artifacts, e.g.
//
//	- number: 4
//	  title: add tests
//	  state: closed
//	  body: "... <!-- todo-action:v1 {...} -->"
func LoadSnapshot(path, kind string) (*core.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var artifacts []core.Artifact
	if err := yaml.Unmarshal(data, &artifacts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &core.Snapshot{Kind: kind, Artifacts: artifacts}, nil
}

// PrintReport writes the decisions of a run followed by the writes it would
// have performed.
func PrintReport(w io.Writer, report *core.Report, writes []Write) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s\n", cyan("Decisions:"))
	if report == nil || len(report.Decisions) == 0 {
		fmt.Fprintf(w, "  %s\n", gray("nothing found"))
	} else {
		for _, d := range report.Decisions {
			paint := gray
			switch d.Outcome {
			case core.OutcomeCreated, core.OutcomeCommented:
				paint = green
			case core.OutcomeReopened:
				paint = yellow
			case core.OutcomeFailed:
				paint = red
			}

			fmt.Fprintf(w, "  %-9s %s %s\n", paint(string(d.Outcome)), d.Todo.Title, gray(fmt.Sprintf("(%s:%d)", d.Todo.Filename, d.Todo.Line)))
			if d.Reason != "" {
				fmt.Fprintf(w, "            %s\n", gray(d.Reason))
			}
			if d.Err != nil {
				fmt.Fprintf(w, "            %s\n", red(d.Err.Error()))
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", cyan("Writes:"))
	if len(writes) == 0 {
		fmt.Fprintf(w, "  %s\n", gray("none"))
		return
	}

	for _, wr := range writes {
		switch wr.Op {
		case OpCreateIssue:
			fmt.Fprintf(w, "  %s #%d %s\n", green(string(wr.Op)), wr.Number, wr.Title)
		case OpSetIssueState:
			fmt.Fprintf(w, "  %s #%d -> %s\n", yellow(string(wr.Op)), wr.Number, wr.State)
		case OpCreateIssueComment:
			fmt.Fprintf(w, "  %s #%d\n", yellow(string(wr.Op)), wr.Number)
		case OpCreateReviewComment:
			fmt.Fprintf(w, "  %s #%d %s:%d %s\n", green(string(wr.Op)), wr.Number, wr.Path, wr.Line, wr.Side)
		}
	}
}
