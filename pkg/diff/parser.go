// Package diff parses unified diffs into files, chunks and line changes
// with their positions on both sides of the diff.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// ChangeType classifies a single line of a chunk
type ChangeType string

const (
	Add     ChangeType = "add"
	Del     ChangeType = "del"
	Context ChangeType = "context"
)

// Change is one line inside a chunk. OldLine is set for deletions and
// context lines, NewLine for additions and context lines.
type Change struct {
	Type    ChangeType
	Content string
	OldLine int
	NewLine int
}

// Line returns the line number on the side the change lives on.
func (c Change) Line() int {
	if c.Type == Del {
		return c.OldLine
	}
	return c.NewLine
}

// Chunk is a single hunk of a file diff
type Chunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Changes  []Change
}

// LastLine returns the last line number covered by the chunk on the side of t.
func (c Chunk) LastLine(t ChangeType) int {
	if t == Del {
		return c.OldStart + c.OldLines - 1
	}
	return c.NewStart + c.NewLines - 1
}

// File is the diff of one file
type File struct {
	Path    string
	OldPath string
	Chunks  []Chunk
}

// ParseError reports a diff that could not be parsed. Callers treat it as
// "no changes", not as a failure.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable diff: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses raw unified diff text. On malformed input it returns an
// empty result together with a *ParseError.
func Parse(raw string) ([]File, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(raw))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	files := make([]File, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		file := File{
			Path:    cleanPath(fd.NewName),
			OldPath: cleanPath(fd.OrigName),
		}
		if file.Path == "" {
			file.Path = file.OldPath
		}
		if file.Path == "" {
			continue
		}

		for _, h := range fd.Hunks {
			file.Chunks = append(file.Chunks, parseHunk(h))
		}

		files = append(files, file)
	}

	return files, nil
}

func parseHunk(h *godiff.Hunk) Chunk {
	chunk := Chunk{
		OldStart: int(h.OrigStartLine),
		OldLines: int(h.OrigLines),
		NewStart: int(h.NewStartLine),
		NewLines: int(h.NewLines),
	}

	oldLine := chunk.OldStart
	newLine := chunk.NewStart

	// Lines are not length capped: minified bundles put megabytes on one line.
	lines := bytes.Split(h.Body, []byte("\n"))
	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}

	for _, raw := range lines {
		line := strings.TrimSuffix(string(raw), "\r")
		if line == "" {
			// Some producers drop the leading space of empty context lines.
			chunk.Changes = append(chunk.Changes, Change{Type: Context, OldLine: oldLine, NewLine: newLine})
			oldLine++
			newLine++
			continue
		}

		switch line[0] {
		case '+':
			chunk.Changes = append(chunk.Changes, Change{Type: Add, Content: line[1:], NewLine: newLine})
			newLine++
		case '-':
			chunk.Changes = append(chunk.Changes, Change{Type: Del, Content: line[1:], OldLine: oldLine})
			oldLine++
		case ' ':
			chunk.Changes = append(chunk.Changes, Change{Type: Context, Content: line[1:], OldLine: oldLine, NewLine: newLine})
			oldLine++
			newLine++
		case '\\':
			// "\ No newline at end of file"
		}
	}

	return chunk
}

func cleanPath(name string) string {
	name = strings.TrimSpace(name)
	if name == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}
