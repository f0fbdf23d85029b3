package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarker_RoundTrip(t *testing.T) {
	titles := []string{
		"plain title",
		"handle {braces} and } -->",
		"quotes \"and\" <html> & ampersands",
		"unicode ✓ ünïcödé",
		"newline\ninside",
	}

	for _, title := range titles {
		t.Run(title, func(t *testing.T) {
			m := Marker{Title: title, File: "dir/file.go", Author: "octocat", Sha: "abc123"}

			encoded, err := m.Encode()
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(encoded, "<!-- todo-action:v1 {"))
			assert.Equal(t, 1, strings.Count(encoded, "-->"), "the payload never closes the comment")
			assert.NotContains(t, encoded, "\n")

			body := "## something\n\nsome text\n\n" + encoded + "\n"
			got, ok := ParseMarker(body)
			require.True(t, ok)

			m.Version = MarkerVersion
			assert.Equal(t, &m, got)
		})
	}
}

func TestParseMarker_Legacy(t *testing.T) {
	body := "\n\n<!-- probot = {\"10000\":{\"title\": \"Jason!\",\"file\": \"index.js\"}} -->`"

	got, ok := ParseMarker(body)
	require.True(t, ok)
	assert.Equal(t, "Jason!", got.Title)
	assert.Equal(t, "index.js", got.File)
	assert.Equal(t, 0, got.Version)
}

func TestParseMarker_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no marker", body: "just an issue body"},
		{name: "future version", body: `<!-- todo-action:v9 {"v":9,"title":"x"} -->`},
		{name: "broken json", body: `<!-- todo-action:v1 {"title": } -->`},
		{name: "broken legacy json", body: `<!-- probot = {"1":{"title":}} -->`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMarker(tt.body)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestNewMarker(t *testing.T) {
	todo := &Todo{Title: "a title", Filename: "a.go", Username: "me", Sha: "deadbeef"}

	assert.Equal(t, Marker{Version: MarkerVersion, Title: "a title", File: "a.go", Author: "me", Sha: "deadbeef"}, NewMarker(todo))
}
