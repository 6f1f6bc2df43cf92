package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/zenith-dev/zenith/internal/model"
)

// MarkdownExtractor walks the goldmark AST rather than a regex heading
// scanner: goldmark gives exact byte offsets for every heading node, which
// internal/chunk's section splitter also depends on for its headed-section
// chunk boundaries (spec §C supplement, the chunker shares this walk).
type MarkdownExtractor struct {
	md goldmark.Markdown
}

func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{md: goldmark.New()}
}

func (e *MarkdownExtractor) Language() string { return "markdown" }

func (e *MarkdownExtractor) Extract(content string) ([]model.ParsedItem, error) {
	src := []byte(content)
	doc := e.md.Parser().Parse(text.NewReader(src))

	var items []model.ParsedItem
	var stack []*model.ParsedItem

	lineOf := func(seg int) int {
		return 1 + strings.Count(content[:seg], "\n")
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := headingText(heading, src)
		startOffset := 0
		if lines := heading.Lines(); lines.Len() > 0 {
			startOffset = lines.At(0).Start
		}
		startLine := lineOf(startOffset)

		for len(stack) > 0 && headingLevel(stack[len(stack)-1]) >= heading.Level {
			closeHeading(stack[len(stack)-1], startLine-1)
			stack = stack[:len(stack)-1]
		}

		item := &model.ParsedItem{
			Kind:       model.KindModule,
			Name:       title,
			Signature:  strings.Repeat("#", heading.Level) + " " + title,
			StartLine:  startLine,
			Visibility: model.VisPublic,
			Metadata:   model.Metadata{PropertyPath: headingPath(stack, title)},
		}
		items = append(items, *item)
		stack = append(stack, &items[len(items)-1])
		return ast.WalkContinue, nil
	})

	lines := strings.Split(content, "\n")
	for len(stack) > 0 {
		closeHeading(stack[len(stack)-1], len(lines))
		stack = stack[:len(stack)-1]
	}
	for i := range items {
		if items[i].EndLine == 0 {
			items[i].EndLine = len(lines)
		}
		items[i].Source = truncateSource(lines, items[i].StartLine-1, items[i].EndLine)
	}

	return items, nil
}

func closeHeading(item *model.ParsedItem, endLine int) {
	if item.EndLine == 0 {
		item.EndLine = endLine
	}
}

func headingLevel(item *model.ParsedItem) int {
	return strings.Count(strings.Fields(item.Signature)[0], "#")
}

func headingPath(stack []*model.ParsedItem, title string) string {
	var parts []string
	for _, s := range stack {
		parts = append(parts, s.Name)
	}
	parts = append(parts, title)
	return strings.Join(parts, "/")
}

func headingText(h *ast.Heading, src []byte) string {
	var sb strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
	}
	return strings.TrimSpace(sb.String())
}
