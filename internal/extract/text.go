package extract

import (
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// TextExtractor is the fallback for files with no registered extension
// (spec §4.1/§4.8: format detection never blocks a walk). It emits a
// single item spanning the whole file so plain-text files still get
// chunked and embedded rather than silently dropped.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor { return &TextExtractor{} }

func (e *TextExtractor) Language() string { return "text" }

func (e *TextExtractor) Extract(content string) ([]model.ParsedItem, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	lines := strings.Split(content, "\n")
	return []model.ParsedItem{{
		Kind:       model.KindModule,
		Name:       "file",
		Signature:  "",
		Source:     truncateSource(lines, 0, len(lines)),
		StartLine:  1,
		EndLine:    len(lines),
		Visibility: model.VisPublic,
	}}, nil
}
