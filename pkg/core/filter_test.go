package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFilter_Patterns(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		patterns []string
		want     bool
	}{
		{name: "no patterns", filename: "app.py", patterns: nil, want: false},
		{name: "glob on base name", filename: "web/static/app.min.js", patterns: []string{"*.min.js"}, want: true},
		{name: "glob on directory", filename: "vendor/lib/a.go", patterns: []string{"vendor/**"}, want: true},
		{name: "glob star does not cross directories", filename: "vendor/lib/a.go", patterns: []string{"vendor/*.go"}, want: false},
		{name: "regexp", filename: "docs/CHANGELOG.md", patterns: []string{`/CHANGELOG\.md$/`}, want: true},
		{name: "regexp no match", filename: "docs/README.md", patterns: []string{`/CHANGELOG\.md$/`}, want: false},
		{name: "second pattern matches", filename: "a/b.txt", patterns: []string{"*.go", "*.txt"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFileFilter(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Excluded(tt.filename))
		})
	}
}

func TestNewFileFilter_Invalid(t *testing.T) {
	_, err := NewFileFilter([]string{"/[a-/"})
	assert.Error(t, err)

	_, err = NewFileFilter([]string{"  "})
	assert.Error(t, err)
}

func TestFileFilter_Excluded(t *testing.T) {
	f, err := NewFileFilter([]string{"**/testdata/**", "/^generated//"})
	require.NoError(t, err)

	assert.True(t, f.Excluded("pkg/core/testdata/sample.diff"))
	assert.True(t, f.Excluded("generated/api.go"))
	assert.False(t, f.Excluded("pkg/core/scan.go"))
}
