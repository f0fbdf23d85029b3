package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markerBody(t *testing.T, title string) string {
	t.Helper()

	encoded, err := Marker{Title: title, File: "a.go", Author: "me", Sha: "abc"}.Encode()
	require.NoError(t, err)

	return "body\n\n" + encoded
}

func TestFindDuplicate(t *testing.T) {
	snap := &Snapshot{Artifacts: []Artifact{
		{Number: 1, Body: "no marker here, title matches in text: fix the thing", State: StateOpen},
		{Number: 2, Body: markerBody(t, "fix the thing"), State: StateClosed},
		{Number: 3, Body: markerBody(t, "fix the thing"), State: StateOpen},
		{Number: 4, Body: markerBody(t, "other"), State: StateOpen},
	}}

	got := FindDuplicate(snap, "fix the thing", false)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.Number, "first marked artifact wins")

	got = FindDuplicate(snap, "fix the thing", true)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.Number)

	assert.Nil(t, FindDuplicate(snap, "missing", false))
	assert.Nil(t, FindDuplicate(snap, "Fix the thing", false), "titles are compared exactly")
	assert.Nil(t, FindDuplicate(nil, "fix the thing", false))
}

func TestFindAnnounced(t *testing.T) {
	snap := &Snapshot{Artifacts: []Artifact{
		{Number: 10, Body: "## hand written title\n\nsome text"},
		{Number: 11, Body: markerBody(t, "marked title")},
	}}

	assert.Equal(t, int64(10), FindAnnounced(snap, "hand written title").Number)
	assert.Equal(t, int64(11), FindAnnounced(snap, "marked title").Number)
	assert.Nil(t, FindAnnounced(snap, "hand written"))
	assert.Nil(t, FindAnnounced(nil, "anything"))
}

func TestCheckSnapshot(t *testing.T) {
	assert.NoError(t, checkSnapshot(nil))
	assert.NoError(t, checkSnapshot(&Snapshot{Kind: "issues"}))

	err := checkSnapshot(&Snapshot{Kind: "issues", Artifacts: make([]Artifact, 3), Truncated: true})
	assert.ErrorIs(t, err, ErrSnapshotTruncated)
	assert.EqualError(t, err, "issues listing truncated after 3 entries")
}
