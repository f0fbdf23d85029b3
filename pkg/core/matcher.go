package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	MinTitleLength = 5
	MaxTitleLength = 256

	matcherCacheSize = 64
)

var matcherCache *lru.Cache[string, *Matcher]

func init() {
	cache, err := lru.New[string, *Matcher](matcherCacheSize)
	if err != nil {
		panic(fmt.Sprintf("failed to create matcher cache: %v", err))
	}
	matcherCache = cache
}

// Match is a keyword found on a line
type Match struct {
	Keyword string
	Title   string
	// Leader is the text before the keyword, e.g. "//" or "#"
	Leader string
}

// Matcher finds configured keywords on diff lines. Matchers are immutable and
// safe for concurrent use.
type Matcher struct {
	re       *regexp.Regexp
	keywords []string
}

// NewMatcher returns the matcher for a keyword set. Compiled matchers are
// shared between calls with the same keywords and case sensitivity.
func NewMatcher(keywords []string, caseSensitive bool) (*Matcher, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords configured")
	}

	key := matcherKey(keywords, caseSensitive)
	if m, ok := matcherCache.Get(key); ok {
		return m, nil
	}

	re, err := regexp.Compile(buildPattern(keywords, caseSensitive))
	if err != nil {
		return nil, fmt.Errorf("failed to compile keyword pattern: %w", err)
	}

	m := &Matcher{
		re:       re,
		keywords: append([]string(nil), keywords...),
	}
	matcherCache.Add(key, m)

	return m, nil
}

// Match evaluates a single line. The returned title is trimmed but not
// length checked.
func (m *Matcher) Match(line string) (*Match, bool) {
	idx := m.re.FindStringSubmatchIndex(line)
	if idx == nil {
		return nil, false
	}

	kwStart, kwEnd := idx[2], idx[3]
	titleStart, titleEnd := idx[4], idx[5]

	return &Match{
		Keyword: m.canonical(line[kwStart:kwEnd]),
		Title:   strings.TrimSpace(line[titleStart:titleEnd]),
		Leader:  strings.TrimSpace(line[:kwStart]),
	}, true
}

// canonical maps the matched text back to the configured spelling.
func (m *Matcher) canonical(found string) string {
	for _, k := range m.keywords {
		if k == found {
			return k
		}
	}
	for _, k := range m.keywords {
		if strings.EqualFold(k, found) {
			return k
		}
	}
	return found
}

// CheckTitle applies the title length rules. It returns false with a
// reason for titles that are too short, and false with an empty reason for
// titles that are too long to be a real comment.
func CheckTitle(title string) (bool, string) {
	n := utf8.RuneCountInString(title)
	switch {
	case n > MaxTitleLength:
		return false, ""
	case n < MinTitleLength:
		return false, "title too short"
	default:
		return true, ""
	}
}

func buildPattern(keywords []string, caseSensitive bool) string {
	sorted := append([]string(nil), keywords...)
	// Longer keywords first so that "TODO" never shadows "TODOS".
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	alts := make([]string, 0, len(sorted))
	for _, k := range sorted {
		alts = append(alts, wordBounded(k))
	}

	var b strings.Builder
	if !caseSensitive {
		b.WriteString("(?i)")
	}
	b.WriteString(`(?P<keyword>`)
	b.WriteString(strings.Join(alts, "|"))
	b.WriteString(`)\s?-?:?(?P<title>.*)`)

	return b.String()
}

// wordBounded quotes keyword and anchors it at word boundaries. A boundary
// is only required on a side where the keyword has a word character, so
// "@todo" still matches after a space.
func wordBounded(keyword string) string {
	first, _ := utf8.DecodeRuneInString(keyword)
	last, _ := utf8.DecodeLastRuneInString(keyword)

	pattern := regexp.QuoteMeta(keyword)
	if isWordRune(first) {
		pattern = `\b` + pattern
	}
	if isWordRune(last) {
		pattern += `\b`
	}

	return pattern
}

func isWordRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

func matcherKey(keywords []string, caseSensitive bool) string {
	sorted := append([]string(nil), keywords...)
	sort.Strings(sorted)
	return fmt.Sprintf("%t\x00%s", caseSensitive, strings.Join(sorted, "\x00"))
}
