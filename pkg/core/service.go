package core

import (
	"context"
	"fmt"
	"strings"
)

// Service is the hosting service the dispatchers read from and write to.
type Service interface {
	// Diff returns the unified diff of a commit or pull request
	Diff(ctx context.Context, target Target) (string, error)
	// Issues lists the repository issues, open and closed
	Issues(ctx context.Context) (*Snapshot, error)
	// ReviewComments lists the review comments of a pull request
	ReviewComments(ctx context.Context, number int) (*Snapshot, error)

	CreateIssue(ctx context.Context, req IssueRequest) (*Artifact, error)
	SetIssueState(ctx context.Context, number int64, state State) error
	CreateIssueComment(ctx context.Context, number int64, body string) error
	CreateReviewComment(ctx context.Context, req ReviewCommentRequest) error
}

// ContentReader reads the files of a commit
type ContentReader interface {
	Tree(ctx context.Context, sha string) (*Tree, error)
	Blob(ctx context.Context, sha string) (string, error)
}

// Repository names the owner/name pair artifacts are written to
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepository splits an "owner/name" slug
func ParseRepository(fullName string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("invalid repository slug %q, expected owner/name", fullName)
	}

	return Repository{Owner: owner, Name: name}, nil
}
