package core

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksysoev/todo-action/pkg/diff"
)

const fixmeDiff = "diff --git a/app.py b/app.py\n" +
	"index 1111111..2222222 100644\n" +
	"--- a/app.py\n" +
	"+++ b/app.py\n" +
	"@@ -1,3 +1,5 @@\n" +
	" import os\n" +
	"+# FIXME - add tests\n" +
	"+# cover the failure path\n" +
	" \n" +
	" def main():\n"

// addDiff builds a diff that appends lines after the first line of path.
func addDiff(path string, lines ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%[1]s b/%[1]s\nindex 1111111..2222222 100644\n--- a/%[1]s\n+++ b/%[1]s\n", path)
	fmt.Fprintf(&b, "@@ -1,1 +1,%d @@\n first line\n", len(lines)+1)
	for _, l := range lines {
		b.WriteString("+" + l + "\n")
	}
	return b.String()
}

// modDiff builds a diff that replaces the second line of path.
func modDiff(path, oldLine, newLine string) string {
	return fmt.Sprintf("diff --git a/%[1]s b/%[1]s\nindex 1111111..2222222 100644\n--- a/%[1]s\n+++ b/%[1]s\n@@ -1,2 +1,2 @@\n first line\n-%[2]s\n+%[3]s\n", path, oldLine, newLine)
}

// delDiff builds a diff that removes the second line of path.
func delDiff(path, oldLine string) string {
	return fmt.Sprintf("diff --git a/%[1]s b/%[1]s\nindex 1111111..2222222 100644\n--- a/%[1]s\n+++ b/%[1]s\n@@ -1,2 +1,1 @@\n first line\n-%[2]s\n", path, oldLine)
}

var testEvent = Event{Repository: testRepo, Sha: "f7d286aa", Username: "octocat"}

func TestScan_FixmeInPython(t *testing.T) {
	logger, _ := newTestLogger()
	cfg := DefaultConfig()
	cfg.Keywords = StringList{"FIXME"}

	todos, err := Scan(context.Background(), logger, fixmeDiff, cfg, testEvent)
	require.NoError(t, err)
	require.Len(t, todos, 1)

	todo := todos[0]
	assert.Equal(t, "FIXME", todo.Keyword)
	assert.Equal(t, "add tests", todo.Title)
	assert.Equal(t, "cover the failure path", todo.Body)
	assert.Equal(t, "app.py", todo.Filename)
	assert.Equal(t, 2, todo.Line)
	assert.Equal(t, "L2-L5", todo.Range)
	assert.Equal(t, "f7d286aa", todo.Sha)
	assert.Equal(t, "octocat", todo.Username)
	assert.Equal(t, diff.Add, todo.Type)
	assert.Equal(t, []string{"octocat"}, todo.Assignees)
	assert.Equal(t, "cc @octocat", todo.AssignedTo)
	assert.Equal(t, []string{DefaultLabel}, todo.Labels)
	assert.Same(t, cfg, todo.Config)
}

func TestScan_TitleLength(t *testing.T) {
	t.Run("too short is logged", func(t *testing.T) {
		logger, buf := newTestLogger()

		todos, err := Scan(context.Background(), logger, addDiff("a.go", "// TODO: fix"), DefaultConfig(), testEvent)
		require.NoError(t, err)

		assert.Empty(t, todos)
		assert.Contains(t, buf.String(), "item found but the title was too short")
		assert.Contains(t, buf.String(), "title=fix")
	})

	t.Run("too long is dropped silently", func(t *testing.T) {
		logger, buf := newTestLogger()
		line := "// TODO: " + strings.Repeat("a", MaxTitleLength+1)

		todos, err := Scan(context.Background(), logger, addDiff("a.go", line), DefaultConfig(), testEvent)
		require.NoError(t, err)

		assert.Empty(t, todos)
		assert.NotContains(t, buf.String(), "too short")
		assert.NotContains(t, buf.String(), "item found")
	})

	t.Run("boundaries are kept", func(t *testing.T) {
		logger, _ := newTestLogger()
		raw := addDiff("a.go", "// TODO: fixit", "// TODO: "+strings.Repeat("b", MaxTitleLength))

		todos, err := Scan(context.Background(), logger, raw, DefaultConfig(), testEvent)
		require.NoError(t, err)
		assert.Len(t, todos, 2)
	})
}

func TestScan_CaseSensitivity(t *testing.T) {
	raw := addDiff("a.go", "// TODO: fix this bug")

	tests := []struct {
		name          string
		caseSensitive bool
		want          int
	}{
		{name: "case sensitive", caseSensitive: true, want: 0},
		{name: "case insensitive", caseSensitive: false, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newTestLogger()
			cfg := DefaultConfig()
			cfg.Keywords = StringList{"todo"}
			cfg.CaseSensitive = tt.caseSensitive

			todos, err := Scan(context.Background(), logger, raw, cfg, testEvent)
			require.NoError(t, err)
			require.Len(t, todos, tt.want)

			if tt.want > 0 {
				assert.Equal(t, "todo", todos[0].Keyword)
				assert.Equal(t, "fix this bug", todos[0].Title)
			}
		})
	}
}

func TestScan_Exclude(t *testing.T) {
	tests := []struct {
		name    string
		exclude StringList
		want    int
	}{
		{name: "glob on base name", exclude: StringList{"*.py"}, want: 0},
		{name: "glob on full path", exclude: StringList{"src/**"}, want: 1},
		{name: "regexp", exclude: StringList{`/^app\./`}, want: 0},
		{name: "no match", exclude: StringList{"*.go"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newTestLogger()
			cfg := DefaultConfig()
			cfg.Keywords = StringList{"FIXME"}
			cfg.Exclude = tt.exclude

			todos, err := Scan(context.Background(), logger, fixmeDiff, cfg, testEvent)
			require.NoError(t, err)
			assert.Len(t, todos, tt.want)
		})
	}
}

func TestScan_InvalidExclude(t *testing.T) {
	logger, _ := newTestLogger()
	cfg := DefaultConfig()
	cfg.Exclude = StringList{"/[/"}

	_, err := Scan(context.Background(), logger, fixmeDiff, cfg, testEvent)

	var cfgErr *ConfigValidationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "exclude", cfgErr.Field)
}

func TestScan_KeepsDiffOrder(t *testing.T) {
	logger, _ := newTestLogger()

	var raw strings.Builder
	for i := range 12 {
		raw.WriteString(addDiff(fmt.Sprintf("pkg%02d/file.go", i),
			fmt.Sprintf("// TODO: first item %02d", i),
			fmt.Sprintf("// TODO: second item %02d", i),
		))
	}

	todos, err := Scan(context.Background(), logger, raw.String(), DefaultConfig(), testEvent)
	require.NoError(t, err)
	require.Len(t, todos, 24)

	for i := range 12 {
		assert.Equal(t, fmt.Sprintf("first item %02d", i), todos[2*i].Title)
		assert.Equal(t, fmt.Sprintf("second item %02d", i), todos[2*i+1].Title)
		assert.Empty(t, todos[2*i].Body, "a keyword line ends the body")
	}
}

func TestScan_Deletion(t *testing.T) {
	logger, _ := newTestLogger()

	todos, err := Scan(context.Background(), logger, delDiff("a.go", "// TODO: remove the shim"), DefaultConfig(), testEvent)
	require.NoError(t, err)
	require.Len(t, todos, 1)

	assert.Equal(t, diff.Del, todos[0].Type)
	assert.Equal(t, 2, todos[0].Line)
	assert.Equal(t, "L2", todos[0].Range)
}

func TestScan_IgnoresContext(t *testing.T) {
	logger, _ := newTestLogger()
	raw := "diff --git a/a.go b/a.go\nindex 1111111..2222222 100644\n--- a/a.go\n+++ b/a.go\n@@ -1,2 +1,3 @@\n // TODO: already there\n+x := 1\n y := 2\n"

	todos, err := Scan(context.Background(), logger, raw, DefaultConfig(), testEvent)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestScan_Unparsable(t *testing.T) {
	logger, _ := newTestLogger()

	todos, err := Scan(context.Background(), logger, "this is not a diff\nat all\n", DefaultConfig(), testEvent)
	assert.NoError(t, err)
	assert.Empty(t, todos)
}

func TestScan_BlockEndTrimmedFromTitle(t *testing.T) {
	logger, _ := newTestLogger()

	todos, err := Scan(context.Background(), logger, addDiff("README.md", "<!-- TODO: document the configuration file -->"), DefaultConfig(), testEvent)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "document the configuration file", todos[0].Title)
}

func TestScan_AfterMinifiedLine(t *testing.T) {
	logger, _ := newTestLogger()

	raw := addDiff("dist/app.js", strings.Repeat("a;", 1024*1024), "// TODO: after the minified line")

	todos, err := Scan(context.Background(), logger, raw, DefaultConfig(), testEvent)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "after the minified line", todos[0].Title)
	assert.Equal(t, 3, todos[0].Line)
}
