package core

import (
	"fmt"
	"strings"

	"github.com/ksysoev/todo-action/pkg/diff"
)

// extractBody collects the comment lines that follow the matched change at
// index. A line continues the body when it has the same change type, carries
// the same comment leader (or sits inside a block comment opened by the
// matched line), is not blank once the leader is removed and does not hold
// a keyword of its own.
func extractBody(changes []diff.Change, index int, match *Match, lang *Language, matcher *Matcher, bodyKeywords []string) string {
	matched := changes[index]
	leader := commentLeader(match.Leader)
	inBlock := lang.opensBlock(leader, matched.Content)

	if leader == "" {
		return ""
	}
	if !inBlock && lang != nil && lang.BlockCommentStart != "" && strings.HasPrefix(leader, lang.BlockCommentStart) {
		// Block comment closed on the matched line.
		return ""
	}

	var lines []string
	for i := index + 1; i < len(changes); i++ {
		c := changes[i]
		if c.Type != matched.Type {
			break
		}
		if _, ok := matcher.Match(c.Content); ok {
			break
		}

		text, closed := trimBlockEnd(strings.TrimSpace(c.Content), lang)

		if inBlock {
			text = strings.TrimSpace(strings.TrimPrefix(text, "*"))
		} else {
			if !strings.HasPrefix(text, leader) {
				break
			}
			text = strings.TrimSpace(strings.TrimPrefix(text, leader))
		}

		text = stripBodyKeyword(text, bodyKeywords)
		if text != "" {
			lines = append(lines, text)
		} else if !isBodyKeywordLine(c.Content, bodyKeywords) {
			break
		}

		if closed {
			break
		}
	}

	return strings.Join(lines, "\n")
}

// commentLeader returns the comment token directly before a keyword, so a
// trailing "x := 1 // TODO" yields "//".
func commentLeader(prefix string) string {
	fields := strings.Fields(prefix)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// trimBlockEnd strips a trailing block comment terminator and reports
// whether one was found.
func trimBlockEnd(text string, lang *Language) (string, bool) {
	if lang == nil || lang.BlockCommentEnd == "" {
		return text, false
	}
	if !strings.HasSuffix(text, lang.BlockCommentEnd) {
		return text, false
	}
	return strings.TrimSpace(strings.TrimSuffix(text, lang.BlockCommentEnd)), true
}

func stripBodyKeyword(text string, bodyKeywords []string) string {
	for _, k := range bodyKeywords {
		if len(text) >= len(k) && strings.EqualFold(text[:len(k)], k) {
			rest := text[len(k):]
			if rest != "" && rest[0] != ':' && rest[0] != ' ' {
				continue
			}
			return strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		}
	}
	return text
}

func isBodyKeywordLine(content string, bodyKeywords []string) bool {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return false
	}
	last := strings.TrimSuffix(fields[len(fields)-1], ":")
	for _, k := range bodyKeywords {
		if strings.EqualFold(last, k) {
			return true
		}
	}
	return false
}

// lineRange renders the "L12-L16" anchor of a todo. The range never runs
// past the chunk on the side the change lives on.
func lineRange(chunk diff.Chunk, t diff.ChangeType, line, blobLines int) string {
	if blobLines <= 1 {
		return fmt.Sprintf("L%d", line)
	}

	end := line + blobLines - 1
	if last := chunk.LastLine(t); end > last {
		end = last
	}
	if end <= line {
		return fmt.Sprintf("L%d", line)
	}

	return fmt.Sprintf("L%d-L%d", line, end)
}
