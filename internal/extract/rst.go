package extract

import (
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// RSTExtractor detects reStructuredText section headers: a title line
// immediately followed (or both preceded and followed) by a line of a
// single repeated punctuation character at least as long as the title.
// Section nesting is inferred from the order in which underline characters
// are first seen, RST's own convention (no declared heading levels).
type RSTExtractor struct{}

func NewRSTExtractor() *RSTExtractor { return &RSTExtractor{} }

func (e *RSTExtractor) Language() string { return "rst" }

const rstUnderlineChars = `=-~^"'.#*+:_` + "`"

func (e *RSTExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem
	levelOrder := make(map[byte]int)

	for i := 1; i < len(lines); i++ {
		title := strings.TrimSpace(lines[i-1])
		underline := strings.TrimRight(lines[i], "\n")
		if title == "" || !isRSTUnderline(underline) || len(underline) < len(title) {
			continue
		}
		ch := underline[0]
		if _, ok := levelOrder[ch]; !ok {
			levelOrder[ch] = len(levelOrder)
		}
		end := rstSectionEnd(lines, i+1, ch, levelOrder)
		items = append(items, model.ParsedItem{
			Kind:       model.KindModule,
			Name:       title,
			Signature:  title,
			Source:     truncateSource(lines, i-1, end),
			StartLine:  i,
			EndLine:    end,
			Visibility: model.VisPublic,
			Metadata:   model.Metadata{PropertyPath: title},
		})
	}

	return items, nil
}

func isRSTUnderline(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 3 {
		return false
	}
	if !strings.ContainsRune(rstUnderlineChars, rune(line[0])) {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != line[0] {
			return false
		}
	}
	return true
}

// rstSectionEnd finds the line before the next section header at the same
// or shallower nesting level (an underline character seen no later than
// ch's own first appearance).
func rstSectionEnd(lines []string, from int, ch byte, levelOrder map[byte]int) int {
	for i := from + 1; i < len(lines); i++ {
		title := strings.TrimSpace(lines[i-1])
		underline := strings.TrimRight(lines[i], "\n")
		if title == "" || !isRSTUnderline(underline) || len(underline) < len(title) {
			continue
		}
		other := underline[0]
		if order, ok := levelOrder[other]; ok && order <= levelOrder[ch] {
			return i - 1
		}
	}
	return len(lines)
}
