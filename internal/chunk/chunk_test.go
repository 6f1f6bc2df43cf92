package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkMarkdownSplitsOnHeadings(t *testing.T) {
	src := "# Intro\n\nThis is the intro.\n\n## Details\n\nMore words here.\n"
	chunks := NewChunker().ChunkMarkdown(src)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Intro", chunks[0].Heading)
	assert.Contains(t, chunks[0].Content, "intro")
	assert.Equal(t, "Details", chunks[1].Heading)
	assert.Contains(t, chunks[1].Content, "More words")
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)
}

func TestChunkMarkdownOversizedSectionSplits(t *testing.T) {
	var body strings.Builder
	body.WriteString("# Big\n\n")
	for i := 0; i < 2000; i++ {
		body.WriteString("word word word word word\n\n")
	}
	chunks := NewChunker().ChunkMarkdown(body.String())
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), MaxChunkRunes+50)
	}
}

func TestChunkPlainText(t *testing.T) {
	chunks := NewChunker().ChunkPlainText("hello\n\nworld")
	require.Len(t, chunks, 1)
	assert.Equal(t, "", chunks[0].Heading)
}
