package action

import (
	"fmt"
	"strings"

	gh "github.com/google/go-github/v60/github"

	"github.com/ksysoev/todo-action/pkg/core"
)

// Trigger selects the dispatcher for an event
type Trigger string

const (
	TriggerPush        Trigger = "push"
	TriggerPullRequest Trigger = "pull_request"
	// TriggerMerge is a pull_request event closing a merged pull request
	TriggerMerge Trigger = "merge"
)

var pullRequestActions = map[string]bool{
	"opened":      true,
	"synchronize": true,
	"reopened":    true,
}

// Invocation is a decoded event. Skip explains why nothing should run.
type Invocation struct {
	Trigger Trigger
	Event   core.Event
	Skip    string
}

// Decode turns a webhook payload into an invocation
func Decode(eventName string, payload []byte) (*Invocation, error) {
	switch Trigger(eventName) {
	case TriggerPush, TriggerPullRequest:
	default:
		return &Invocation{Skip: fmt.Sprintf("unsupported event %q", eventName)}, nil
	}

	parsed, err := gh.ParseWebHook(eventName, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s payload: %w", eventName, err)
	}

	switch ev := parsed.(type) {
	case *gh.PushEvent:
		return decodePush(ev)
	case *gh.PullRequestEvent:
		return decodePullRequest(ev)
	default:
		return nil, fmt.Errorf("unexpected payload type %T for %s", parsed, eventName)
	}
}

func decodePush(ev *gh.PushEvent) (*Invocation, error) {
	repo, err := core.ParseRepository(ev.GetRepo().GetFullName())
	if err != nil {
		return nil, err
	}

	username := ev.GetHeadCommit().GetAuthor().GetLogin()
	if username == "" {
		username = ev.GetSender().GetLogin()
	}

	inv := &Invocation{
		Trigger: TriggerPush,
		Event: core.Event{
			Repository: repo,
			Sha:        ev.GetAfter(),
			Username:   username,
		},
	}

	branch := ev.GetRepo().GetDefaultBranch()
	if branch == "" {
		branch = ev.GetRepo().GetMasterBranch()
	}

	switch {
	case ev.GetDeleted() || strings.Trim(ev.GetAfter(), "0") == "":
		inv.Skip = "branch deleted"
	case ev.GetRef() != "refs/heads/"+branch:
		inv.Skip = fmt.Sprintf("push to %s, not the default branch", ev.GetRef())
	}

	return inv, nil
}

func decodePullRequest(ev *gh.PullRequestEvent) (*Invocation, error) {
	repo, err := core.ParseRepository(ev.GetRepo().GetFullName())
	if err != nil {
		return nil, err
	}

	pr := ev.GetPullRequest()
	number := ev.GetNumber()
	if number == 0 {
		number = pr.GetNumber()
	}

	inv := &Invocation{
		Trigger: TriggerPullRequest,
		Event: core.Event{
			Repository:  repo,
			Sha:         pr.GetHead().GetSHA(),
			Username:    pr.GetUser().GetLogin(),
			PullRequest: number,
		},
	}

	switch {
	case ev.GetAction() == "closed" && !pr.GetMerged():
		inv.Skip = "pull request closed without merging"
	case ev.GetAction() == "closed":
		inv.Trigger = TriggerMerge
		inv.Event.Sha = pr.GetMergeCommitSHA()
	case !pullRequestActions[ev.GetAction()]:
		inv.Skip = fmt.Sprintf("pull request action %q", ev.GetAction())
	}

	return inv, nil
}
