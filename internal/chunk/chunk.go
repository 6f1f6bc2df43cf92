// Package chunk splits a documentation file's text into headed sections
// for embedding and storage as model.DocChunkRow rows (spec §4.2 step 3).
package chunk

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Chunk is one headed section of a document, ready to be embedded.
type Chunk struct {
	Heading string
	Content string
	Index   int
}

// MaxChunkRunes bounds a single chunk's content; a section longer than
// this is split further on paragraph boundaries (spec §4.2's chunking
// invariant: no chunk embedding request exceeds the embedder's input
// limit).
const MaxChunkRunes = 4000

// Chunker splits Markdown documents into section-level chunks by walking
// the goldmark AST for heading boundaries, the same walk
// internal/extract's MarkdownExtractor uses for symbol-level headings.
type Chunker struct {
	md goldmark.Markdown
}

func NewChunker() *Chunker {
	return &Chunker{md: goldmark.New()}
}

// ChunkMarkdown splits content into one Chunk per top-level heading
// section (H1/H2), with deeper headings folded into their parent's
// content, then further splits any section exceeding MaxChunkRunes on
// blank-line paragraph boundaries.
func (c *Chunker) ChunkMarkdown(content string) []Chunk {
	src := []byte(content)
	doc := c.md.Parser().Parse(gmtext.NewReader(src))

	type boundary struct {
		title string
		line  int
	}
	var bounds []boundary
	lineOf := func(seg int) int {
		return strings.Count(content[:seg], "\n")
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level > 2 {
			return ast.WalkContinue, nil
		}
		startOffset := 0
		if lines := h.Lines(); lines.Len() > 0 {
			startOffset = lines.At(0).Start
		}
		bounds = append(bounds, boundary{title: headingPlainText(h, src), line: lineOf(startOffset)})
		return ast.WalkContinue, nil
	})

	lines := strings.Split(content, "\n")
	if len(bounds) == 0 {
		return splitOversized("", content)
	}

	var chunks []Chunk
	idx := 0
	for i, b := range bounds {
		end := len(lines)
		if i+1 < len(bounds) {
			end = bounds[i+1].line
		}
		body := strings.TrimSpace(strings.Join(lines[b.line:end], "\n"))
		for _, piece := range splitOversized(b.title, body) {
			piece.Index = idx
			idx++
			chunks = append(chunks, piece)
		}
	}
	return chunks
}

// ChunkPlainText splits a non-Markdown text file into fixed-size chunks on
// paragraph boundaries, with no heading metadata.
func (c *Chunker) ChunkPlainText(content string) []Chunk {
	chunks := splitOversized("", content)
	for i := range chunks {
		chunks[i].Index = i
	}
	return chunks
}

func splitOversized(heading, body string) []Chunk {
	if len([]rune(body)) <= MaxChunkRunes {
		if strings.TrimSpace(body) == "" {
			return nil
		}
		return []Chunk{{Heading: heading, Content: body}}
	}

	paragraphs := strings.Split(body, "\n\n")
	var chunks []Chunk
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, Chunk{Heading: heading, Content: strings.TrimSpace(current.String())})
			current.Reset()
		}
	}
	for _, p := range paragraphs {
		if current.Len()+len(p) > MaxChunkRunes && current.Len() > 0 {
			flush()
		}
		current.WriteString(p)
		current.WriteString("\n\n")
	}
	flush()
	return chunks
}

func headingPlainText(h *ast.Heading, src []byte) string {
	var sb strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
	}
	return strings.TrimSpace(sb.String())
}
