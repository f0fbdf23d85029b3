package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// MarkerVersion is the schema version written into new artifacts. Readers
// must keep accepting every version that was ever written.
const MarkerVersion = 1

// Marker is the identity block embedded in every generated artifact body.
// It is the only state carried between invocations.
type Marker struct {
	Version int    `json:"v"`
	Title   string `json:"title"`
	File    string `json:"file"`
	Author  string `json:"author"`
	Sha     string `json:"sha"`
}

var (
	markerRe       = regexp.MustCompile(`<!-- todo-action:v(\d+) (\{.*?\}) -->`)
	legacyMarkerRe = regexp.MustCompile(`(?s)<!-- probot = (\{.*?\}\}) -->`)
)

// NewMarker builds the current-version marker of a todo
func NewMarker(todo *Todo) Marker {
	return Marker{
		Version: MarkerVersion,
		Title:   todo.Title,
		File:    todo.Filename,
		Author:  todo.Username,
		Sha:     todo.Sha,
	}
}

// Encode renders the marker as an HTML comment. encoding/json escapes '<',
// '>' and '&', so no field value can close the comment early.
func (m Marker) Encode() (string, error) {
	m.Version = MarkerVersion

	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode marker: %w", err)
	}

	return fmt.Sprintf("<!-- todo-action:v%d %s -->", MarkerVersion, data), nil
}

// ParseMarker extracts the marker of an artifact body. Bodies written by the
// legacy probot app are understood as well.
func ParseMarker(body string) (*Marker, bool) {
	if m := markerRe.FindStringSubmatch(body); m != nil {
		version, err := strconv.Atoi(m[1])
		if err != nil || version < 1 || version > MarkerVersion {
			return nil, false
		}

		var marker Marker
		if err := json.Unmarshal([]byte(m[2]), &marker); err != nil {
			return nil, false
		}
		marker.Version = version

		return &marker, true
	}

	if m := legacyMarkerRe.FindStringSubmatch(body); m != nil {
		var byApp map[string]Marker
		if err := json.Unmarshal([]byte(m[1]), &byApp); err != nil {
			return nil, false
		}
		for _, marker := range byApp {
			marker.Version = 0
			return &marker, true
		}
	}

	return nil, false
}
