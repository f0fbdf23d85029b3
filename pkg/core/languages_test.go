package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLanguageForFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		comment  string
		want     bool
	}{
		{name: "Go file", filename: "sample.go", comment: "//", want: true},
		{name: "JavaScript file", filename: "web/app/sample.js", comment: "//", want: true},
		{name: "Python file", filename: "sample.py", comment: "#", want: true},
		{name: "upper case extension", filename: "LEGACY.PY", comment: "#", want: true},
		{name: "Dockerfile by name", filename: "build/Dockerfile", comment: "#", want: true},
		{name: "SQL file", filename: "schema.sql", comment: "--", want: true},
		{name: "Unsupported file", filename: "sample.xyz", want: false},
		{name: "no extension", filename: "LICENSE", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang := GetLanguageForFile(tt.filename)
			if !tt.want {
				assert.Nil(t, lang, "Expected no language to be found for %s", tt.filename)
				return
			}

			require.NotNil(t, lang, "Expected language to be found for %s", tt.filename)
			assert.Equal(t, tt.comment, lang.LineComment)
		})
	}
}

func TestGetLanguageForFile_Markup(t *testing.T) {
	lang := GetLanguageForFile("docs/README.md")
	require.NotNil(t, lang)

	assert.Empty(t, lang.LineComment)
	assert.Equal(t, "<!--", lang.BlockCommentStart)
	assert.Equal(t, "-->", lang.BlockCommentEnd)
}

func TestLanguage_OpensBlock(t *testing.T) {
	goLang := GetLanguageForFile("a.go")

	assert.True(t, goLang.opensBlock("/*", "/* TODO: handle retries"))
	assert.False(t, goLang.opensBlock("/*", "/* TODO: handle retries */"))
	assert.False(t, goLang.opensBlock("//", "// TODO: handle retries"))

	var unknown *Language
	assert.False(t, unknown.opensBlock("/*", "/* TODO"))
}
