package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
)

// fakeService implements Service in memory and records every write
type fakeService struct {
	mu sync.Mutex

	diff           string
	diffErr        error
	issues         *Snapshot
	issuesErr      error
	reviewComments *Snapshot

	createIssueErr   map[string]error
	setStateErr      error
	reviewCommentErr map[string]error

	nextNumber     int64
	created        []IssueRequest
	stateChanges   map[int64]State
	issueComments  map[int64][]string
	reviewRequests []ReviewCommentRequest
	issueListCalls int
}

func newFakeService(diff string) *fakeService {
	return &fakeService{
		diff:          diff,
		issues:        &Snapshot{Kind: "issues"},
		nextNumber:    100,
		stateChanges:  make(map[int64]State),
		issueComments: make(map[int64][]string),
	}
}

func (f *fakeService) Diff(_ context.Context, _ Target) (string, error) {
	return f.diff, f.diffErr
}

func (f *fakeService) Issues(_ context.Context) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issueListCalls++
	if f.issuesErr != nil {
		return nil, f.issuesErr
	}
	return f.issues, nil
}

func (f *fakeService) ReviewComments(_ context.Context, _ int) (*Snapshot, error) {
	if f.reviewComments == nil {
		return &Snapshot{Kind: "review comments"}, nil
	}
	return f.reviewComments, nil
}

func (f *fakeService) CreateIssue(_ context.Context, req IssueRequest) (*Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.createIssueErr[req.Title]; ok {
		return nil, err
	}
	f.nextNumber++
	f.created = append(f.created, req)
	return &Artifact{Number: f.nextNumber, Title: req.Title, Body: req.Body, State: StateOpen}, nil
}

func (f *fakeService) SetIssueState(_ context.Context, number int64, state State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setStateErr != nil {
		return f.setStateErr
	}
	f.stateChanges[number] = state
	return nil
}

func (f *fakeService) CreateIssueComment(_ context.Context, number int64, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issueComments[number] = append(f.issueComments[number], body)
	return nil
}

func (f *fakeService) CreateReviewComment(_ context.Context, req ReviewCommentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.reviewCommentErr[req.Path]; ok {
		return err
	}
	f.reviewRequests = append(f.reviewRequests, req)
	return nil
}

// asSnapshot turns the issues created so far into a snapshot, as the next
// invocation would list them.
func (f *fakeService) asSnapshot() *Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := &Snapshot{Kind: "issues"}
	for i, req := range f.created {
		snap.Artifacts = append(snap.Artifacts, Artifact{
			Number: int64(101 + i),
			Title:  req.Title,
			Body:   req.Body,
			State:  StateOpen,
		})
	}
	return snap
}

var errBoom = errors.New("boom")

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

var testRepo = Repository{Owner: "octo", Name: "widgets"}

// fakeContent serves a fixed tree and blobs keyed by blob sha
type fakeContent struct {
	mu sync.Mutex

	tree    *Tree
	treeErr error
	blobs   map[string]string
	blobErr map[string]error

	treeCalls int
	blobReads []string
}

func (f *fakeContent) Tree(_ context.Context, _ string) (*Tree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.treeCalls++
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	return f.tree, nil
}

func (f *fakeContent) Blob(_ context.Context, sha string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobReads = append(f.blobReads, sha)
	if err, ok := f.blobErr[sha]; ok {
		return "", err
	}
	return f.blobs[sha], nil
}
