// Package github implements core.Service on top of the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	"github.com/ksysoev/todo-action/pkg/core"
)

const (
	// DefaultMaxPages bounds the pages read for one artifact snapshot
	DefaultMaxPages = 50

	perPage    = 100
	labelColor = "00B0D8"
)

// Client handles interaction with the GitHub API
type Client struct {
	client   *github.Client
	repo     core.Repository
	logger   *slog.Logger
	maxPages int
}

// NewClient creates a GitHub client authenticated with token
func NewClient(token string, repo core.Repository, logger *slog.Logger, maxPages int) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return newClient(github.NewClient(tc), repo, logger, maxPages)
}

func newClient(gh *github.Client, repo core.Repository, logger *slog.Logger, maxPages int) *Client {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	return &Client{
		client:   gh,
		repo:     repo,
		logger:   logger,
		maxPages: maxPages,
	}
}

// Diff returns the unified diff of a pull request, or of a single commit
// when no pull request is set.
func (c *Client) Diff(ctx context.Context, target core.Target) (string, error) {
	opts := github.RawOptions{Type: github.Diff}

	if target.PullRequest > 0 {
		raw, _, err := c.client.PullRequests.GetRaw(ctx, c.repo.Owner, c.repo.Name, target.PullRequest, opts)
		if err != nil {
			return "", fmt.Errorf("failed to get diff of PR #%d: %w", target.PullRequest, err)
		}
		return raw, nil
	}

	raw, _, err := c.client.Repositories.GetCommitRaw(ctx, c.repo.Owner, c.repo.Name, target.Sha, opts)
	if err != nil {
		return "", fmt.Errorf("failed to get diff of commit %s: %w", target.Sha, err)
	}

	return raw, nil
}

// Issues lists every issue of the repository, open and closed. Pull
// requests returned by the issues endpoint are left out.
func (c *Client) Issues(ctx context.Context) (*core.Snapshot, error) {
	snap := &core.Snapshot{Kind: "issues"}
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for page := 1; ; page++ {
		issues, resp, err := c.client.Issues.ListByRepo(ctx, c.repo.Owner, c.repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues of %s: %w", c.repo, err)
		}

		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			snap.Artifacts = append(snap.Artifacts, core.Artifact{
				Number: int64(issue.GetNumber()),
				Title:  issue.GetTitle(),
				Body:   issue.GetBody(),
				State:  core.State(issue.GetState()),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		if page >= c.maxPages {
			c.logger.Warn("issue listing hit the page limit", "pages", page, "collected", len(snap.Artifacts))
			snap.Truncated = true
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("issues listed", "repo", c.repo.String(), "count", len(snap.Artifacts))

	return snap, nil
}

// ReviewComments lists the review comments of a pull request
func (c *Client) ReviewComments(ctx context.Context, number int) (*core.Snapshot, error) {
	snap := &core.Snapshot{Kind: "review comments"}
	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for page := 1; ; page++ {
		comments, resp, err := c.client.PullRequests.ListComments(ctx, c.repo.Owner, c.repo.Name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list review comments of PR #%d: %w", number, err)
		}

		for _, comment := range comments {
			snap.Artifacts = append(snap.Artifacts, core.Artifact{
				Number: comment.GetID(),
				Body:   comment.GetBody(),
				State:  core.StateOpen,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		if page >= c.maxPages {
			c.logger.Warn("review comment listing hit the page limit", "pages", page, "collected", len(snap.Artifacts))
			snap.Truncated = true
			break
		}
		opts.Page = resp.NextPage
	}

	return snap, nil
}

// CreateIssue opens a new issue
func (c *Client) CreateIssue(ctx context.Context, req core.IssueRequest) (*core.Artifact, error) {
	ir := &github.IssueRequest{
		Title: &req.Title,
		Body:  &req.Body,
	}
	if len(req.Labels) > 0 {
		ir.Labels = &req.Labels
	}
	if len(req.Assignees) > 0 {
		ir.Assignees = &req.Assignees
	}

	issue, _, err := c.client.Issues.Create(ctx, c.repo.Owner, c.repo.Name, ir)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue %q: %w", req.Title, err)
	}

	c.logger.Debug("issue created", "number", issue.GetNumber(), "url", issue.GetHTMLURL())

	return &core.Artifact{
		Number: int64(issue.GetNumber()),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  core.State(issue.GetState()),
	}, nil
}

// SetIssueState opens or closes an issue
func (c *Client) SetIssueState(ctx context.Context, number int64, state core.State) error {
	_, _, err := c.client.Issues.Edit(ctx, c.repo.Owner, c.repo.Name, int(number), &github.IssueRequest{
		State: github.String(string(state)),
	})
	if err != nil {
		return fmt.Errorf("failed to set issue #%d to %s: %w", number, state, err)
	}

	return nil
}

// CreateIssueComment comments on an issue
func (c *Client) CreateIssueComment(ctx context.Context, number int64, body string) error {
	_, _, err := c.client.Issues.CreateComment(ctx, c.repo.Owner, c.repo.Name, int(number), &github.IssueComment{
		Body: &body,
	})
	if err != nil {
		return fmt.Errorf("failed to comment on issue #%d: %w", number, err)
	}

	return nil
}

// CreateReviewComment comments on a single line of a pull request diff
func (c *Client) CreateReviewComment(ctx context.Context, req core.ReviewCommentRequest) error {
	_, _, err := c.client.PullRequests.CreateComment(ctx, c.repo.Owner, c.repo.Name, req.PullRequest, &github.PullRequestComment{
		Body:     &req.Body,
		CommitID: &req.CommitSha,
		Path:     &req.Path,
		Line:     &req.Line,
		Side:     github.String(string(req.Side)),
	})
	if err != nil {
		return fmt.Errorf("failed to comment on %s:%d of PR #%d: %w", req.Path, req.Line, req.PullRequest, err)
	}

	return nil
}

// EnsureLabels creates the labels that do not exist yet
func (c *Client) EnsureLabels(ctx context.Context, labels []string) error {
	for _, name := range labels {
		_, _, err := c.client.Issues.GetLabel(ctx, c.repo.Owner, c.repo.Name, name)
		if err == nil {
			continue
		}
		if !isNotFound(err) {
			return fmt.Errorf("failed to get label %q: %w", name, err)
		}

		_, _, err = c.client.Issues.CreateLabel(ctx, c.repo.Owner, c.repo.Name, &github.Label{
			Name:  github.String(name),
			Color: github.String(labelColor),
		})
		if err != nil {
			return fmt.Errorf("failed to create label %q: %w", name, err)
		}

		c.logger.Info("label created", "label", name)
	}

	return nil
}

// Config reads the config file at path for ref. A missing file yields nil
// content and no error.
func (c *Client) Config(ctx context.Context, path, ref string) ([]byte, error) {
	fileContent, _, _, err := c.client.Repositories.GetContents(
		ctx,
		c.repo.Owner,
		c.repo.Name,
		path,
		&github.RepositoryContentGetOptions{Ref: ref},
	)
	if err != nil {
		if isNotFound(err) {
			c.logger.Debug("config file not found, using defaults", "path", path, "ref", ref)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content of %s: %w", path, err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", path, err)
	}

	return []byte(content), nil
}

// IsMergeCommit reports whether sha has more than one parent
func (c *Client) IsMergeCommit(ctx context.Context, sha string) (bool, error) {
	commit, _, err := c.client.Git.GetCommit(ctx, c.repo.Owner, c.repo.Name, sha)
	if err != nil {
		return false, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}

	return len(commit.Parents) > 1, nil
}

// IsMerged reports whether pull request number has been merged
func (c *Client) IsMerged(ctx context.Context, number int) (bool, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.repo.Owner, c.repo.Name, number)
	if err != nil {
		return false, fmt.Errorf("failed to get PR #%d: %w", number, err)
	}

	return pr.GetMerged(), nil
}

// Tree lists the files of commit sha with one recursive request. GitHub
// truncates very large trees; the result then carries Truncated.
func (c *Client) Tree(ctx context.Context, sha string) (*core.Tree, error) {
	tree, _, err := c.client.Git.GetTree(ctx, c.repo.Owner, c.repo.Name, sha, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree of %s: %w", sha, err)
	}

	result := &core.Tree{
		Sha:       tree.GetSHA(),
		Files:     make(map[string]string, len(tree.Entries)),
		Truncated: tree.GetTruncated(),
	}
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		result.Files[entry.GetPath()] = entry.GetSHA()
	}

	if result.Truncated {
		c.logger.Warn("tree was too large for one recursive request", "sha", sha, "collected", len(result.Files))
	}

	return result, nil
}

// Blob returns the content of blob sha
func (c *Client) Blob(ctx context.Context, sha string) (string, error) {
	raw, _, err := c.client.Git.GetBlobRaw(ctx, c.repo.Owner, c.repo.Name, sha)
	if err != nil {
		return "", fmt.Errorf("failed to get blob %s: %w", sha, err)
	}

	return string(raw), nil
}

func isNotFound(err error) bool {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == http.StatusNotFound
	}
	return false
}

var (
	_ core.Service       = (*Client)(nil)
	_ core.ContentReader = (*Client)(nil)
)
