package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// SvelteExtractor delegates the <script> block to the JavaScript/TypeScript
// engine (a .svelte file's script section is plain JS/TS) and additionally
// emits one Component item for the file itself carrying the Svelte
// directives (on:, bind:, use:) found in the markup.
type SvelteExtractor struct {
	scriptRe    *regexp.Regexp
	directiveRe *regexp.Regexp
}

func NewSvelteExtractor() *SvelteExtractor {
	return &SvelteExtractor{
		scriptRe:    regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`),
		directiveRe: regexp.MustCompile(`\b(on|bind|use|transition|class):([A-Za-z_-]+)`),
	}
}

func (e *SvelteExtractor) Language() string { return "svelte" }

func (e *SvelteExtractor) Extract(content string) ([]model.ParsedItem, error) {
	var items []model.ParsedItem

	if m := e.scriptRe.FindStringSubmatch(content); m != nil {
		jsExtractor := NewJavaScriptExtractor()
		scriptItems, err := jsExtractor.Extract(m[1])
		if err == nil {
			items = append(items, scriptItems...)
		}
	}

	directives := make(map[string]string)
	for _, m := range e.directiveRe.FindAllStringSubmatch(content, -1) {
		directives[m[1]+":"+m[2]] = m[2]
	}
	if len(directives) > 0 {
		lines := strings.Split(content, "\n")
		items = append(items, model.ParsedItem{
			Kind:       model.KindComponent,
			Name:       "markup",
			Signature:  "<svelte markup>",
			StartLine:  1,
			EndLine:    len(lines),
			Visibility: model.VisPublic,
			Metadata:   model.Metadata{Directives: directives},
		})
	}

	return items, nil
}
