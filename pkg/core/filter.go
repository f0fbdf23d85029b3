package core

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

type excludePattern interface {
	Match(string) bool
}

type regexPattern struct {
	re *regexp.Regexp
}

func (p regexPattern) Match(s string) bool {
	return p.re.MatchString(s)
}

// compileExclude compiles a pattern written either as /regexp/ or as a glob
func compileExclude(pattern string) (excludePattern, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("empty exclude pattern")
	}

	if len(pattern) > 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid exclude regexp %q: %w", pattern, err)
		}
		return regexPattern{re: re}, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid exclude glob %q: %w", pattern, err)
	}

	return g, nil
}

// FileFilter excludes files by path
type FileFilter struct {
	patterns []excludePattern
}

// NewFileFilter compiles the exclude patterns
func NewFileFilter(patterns []string) (*FileFilter, error) {
	f := &FileFilter{}
	for _, p := range patterns {
		compiled, err := compileExclude(p)
		if err != nil {
			return nil, err
		}
		f.patterns = append(f.patterns, compiled)
	}
	return f, nil
}

// Excluded reports whether filename matches any pattern. Globs are tried
// against the full path and the base name.
func (f *FileFilter) Excluded(filename string) bool {
	base := path.Base(filename)

	for _, p := range f.patterns {
		if p.Match(filename) {
			return true
		}
		if _, isRegex := p.(regexPattern); !isRegex && p.Match(base) {
			return true
		}
	}

	return false
}
