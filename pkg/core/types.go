package core

import "github.com/ksysoev/todo-action/pkg/diff"

// Todo represents a matched keyword comment in a change set. It is built per
// matched line and consumed by a dispatcher straight away.
type Todo struct {
	Keyword  string
	Title    string
	Body     string
	Filename string
	Line     int
	Range    string
	Sha      string
	Username string
	Type     diff.ChangeType

	// Assignees and AssignedTo are derived from the auto-assign policy.
	Assignees  []string
	AssignedTo string

	Labels []string
	Config *Config
}

// State is the lifecycle state of an existing artifact
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Artifact is an issue or review comment already stored by the hosting service
type Artifact struct {
	Number int64
	Title  string
	Body   string
	State  State
}

// Snapshot is a listing of existing artifacts taken once per invocation.
// Truncated is set when the listing could not be completed.
type Snapshot struct {
	Kind      string
	Artifacts []Artifact
	Truncated bool
}

// Target identifies the change set a diff is requested for
type Target struct {
	Sha         string
	PullRequest int
}

// IssueRequest is the payload of a new issue
type IssueRequest struct {
	Title     string
	Body      string
	Labels    []string
	Assignees []string
}

// Side selects the diff side a review comment is anchored to
type Side string

const (
	SideLeft  Side = "LEFT"
	SideRight Side = "RIGHT"
)

// ReviewCommentRequest is the payload of an inline pull request review comment
type ReviewCommentRequest struct {
	PullRequest int
	CommitSha   string
	Path        string
	Line        int
	Side        Side
	Body        string
}

// Tree lists the files of a commit, path to blob sha. Truncated is set when
// the hosting service could not return the whole tree.
type Tree struct {
	Sha       string
	Files     map[string]string
	Truncated bool
}
