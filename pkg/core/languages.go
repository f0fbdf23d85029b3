package core

import (
	"path"
	"strings"
)

// Language defines comment styles for different programming languages
type Language struct {
	Extensions        []string
	Filenames         []string
	LineComment       string
	BlockCommentStart string
	BlockCommentEnd   string
}

var supportedLanguages = []Language{
	{Extensions: []string{".go"}, LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/"},
	{Extensions: []string{".java", ".js", ".mjs", ".cjs", ".ts", ".jsx", ".tsx", ".c", ".cpp", ".cc", ".cs", ".h", ".hpp", ".swift", ".kt", ".rs", ".php", ".scala", ".groovy", ".dart"}, LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/"},
	{Extensions: []string{".py", ".rb", ".pl", ".r", ".sh", ".bash", ".zsh", ".yml", ".yaml", ".toml", ".tf", ".cfg", ".ini", ".conf"}, LineComment: "#"},
	{Filenames: []string{"Dockerfile", "Makefile", "Gemfile", "Rakefile", ".gitignore"}, LineComment: "#"},
	{Extensions: []string{".lua"}, LineComment: "--", BlockCommentStart: "--[[", BlockCommentEnd: "]]"},
	{Extensions: []string{".sql"}, LineComment: "--", BlockCommentStart: "/*", BlockCommentEnd: "*/"},
	{Extensions: []string{".html", ".htm", ".xml", ".svg", ".vue", ".md", ".markdown"}, BlockCommentStart: "<!--", BlockCommentEnd: "-->"},
	{Extensions: []string{".css", ".scss", ".less"}, LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/"},
	{Extensions: []string{".ex", ".exs"}, LineComment: "#"},
	{Extensions: []string{".erl", ".hrl"}, LineComment: "%"},
	{Extensions: []string{".hs"}, LineComment: "--", BlockCommentStart: "{-", BlockCommentEnd: "-}"},
	{Extensions: []string{".ps1"}, LineComment: "#", BlockCommentStart: "<#", BlockCommentEnd: "#>"},
	{Extensions: []string{".fs"}, LineComment: "//", BlockCommentStart: "(*", BlockCommentEnd: "*)"},
	{Extensions: []string{".m"}, LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/"},
}

// GetLanguageForFile determines the language of a file based on its name or
// extension. Unknown files return nil.
func GetLanguageForFile(filename string) *Language {
	base := path.Base(filename)
	ext := path.Ext(base)

	for i := range supportedLanguages {
		lang := &supportedLanguages[i]
		for _, name := range lang.Filenames {
			if base == name {
				return lang
			}
		}
		for _, langExt := range lang.Extensions {
			if strings.EqualFold(ext, langExt) {
				return lang
			}
		}
	}

	return nil
}

// opensBlock reports whether leader starts a block comment that is still
// open at the end of line.
func (l *Language) opensBlock(leader, line string) bool {
	if l == nil || l.BlockCommentStart == "" {
		return false
	}
	if !strings.HasPrefix(leader, l.BlockCommentStart) {
		return false
	}

	rest := line[strings.Index(line, l.BlockCommentStart)+len(l.BlockCommentStart):]
	return !strings.Contains(rest, l.BlockCommentEnd)
}
