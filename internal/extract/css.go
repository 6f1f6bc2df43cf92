package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// CSSExtractor emits one ParsedItem per rule block (selector + the
// properties declared inside it), one per at-rule (@media, @keyframes,
// @import, ...), and one per custom property (--foo), covering plain CSS,
// SCSS, and LESS equally since all three share the `selector { prop:
// value; }` shape.
type CSSExtractor struct {
	selectorRe    *regexp.Regexp
	propRe        *regexp.Regexp
	atRuleBlockRe *regexp.Regexp
	atRuleStmtRe  *regexp.Regexp
}

func NewCSSExtractor() *CSSExtractor {
	return &CSSExtractor{
		selectorRe:    regexp.MustCompile(`^([^{};@]+)\{\s*$`),
		propRe:        regexp.MustCompile(`^([A-Za-z-]+)\s*:\s*([^;]+);?`),
		atRuleBlockRe: regexp.MustCompile(`^(@[A-Za-z-]+)\s*([^{;]*)\{\s*$`),
		atRuleStmtRe:  regexp.MustCompile(`^(@[A-Za-z-]+)\s*([^;{]*);`),
	}
}

func (e *CSSExtractor) Language() string { return "css" }

func (e *CSSExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		// At-rules (spec §4.1 CSS: @media, @keyframes, @import, @font-face,
		// @layer, @container, @supports, @scope, @namespace, @charset) each
		// emit their own semantic item instead of being folded into a
		// selector rule or skipped.
		if m := e.atRuleBlockRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			items = append(items, model.ParsedItem{
				Kind:       model.KindModule,
				Name:       m[1],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: model.VisPublic,
				Metadata:   model.Metadata{Selector: strings.TrimSpace(m[2])},
			})
			items = append(items, e.customProperties(lines, i+1, clampEnd(end, len(lines)))...)
			continue
		}
		if m := e.atRuleStmtRe.FindStringSubmatch(trimmed); m != nil {
			items = append(items, model.ParsedItem{
				Kind:       model.KindModule,
				Name:       m[1],
				Signature:  trimmed,
				DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
				StartLine:  i + 1,
				EndLine:    i + 1,
				Visibility: model.VisPublic,
				Metadata:   model.Metadata{Selector: strings.TrimSpace(m[2])},
			})
			continue
		}

		m := e.selectorRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		selector := strings.TrimSpace(m[1])
		end := matchBraces(lines, i)
		var props []string
		for _, l := range lines[i+1 : clampEnd(end, len(lines))] {
			if pm := e.propRe.FindStringSubmatch(strings.TrimSpace(l)); pm != nil {
				props = append(props, pm[1])
			}
		}
		items = append(items, model.ParsedItem{
			Kind:       model.KindClass,
			Name:       selector,
			Signature:  selector + " {",
			Source:     truncateSource(lines, i, end+1),
			DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
			StartLine:  i + 1,
			EndLine:    end + 1,
			Visibility: model.VisPublic,
			Metadata:   model.Metadata{Selector: selector, Properties: props},
		})
		items = append(items, e.customProperties(lines, i+1, clampEnd(end, len(lines)))...)
	}

	return items, nil
}

// customProperties emits one model.KindConst item per `--foo: value;`
// declaration in the given line range (spec §4.1 CSS: "custom properties
// (--foo) emitted as individual constants"), in addition to the foo name
// already folded into the containing rule's Properties list.
func (e *CSSExtractor) customProperties(lines []string, start, end int) []model.ParsedItem {
	var items []model.ParsedItem
	for i := start; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		m := e.propRe.FindStringSubmatch(trimmed)
		if m == nil || !strings.HasPrefix(m[1], "--") {
			continue
		}
		items = append(items, model.ParsedItem{
			Kind:       model.KindConst,
			Name:       m[1],
			Signature:  trimmed,
			StartLine:  i + 1,
			EndLine:    i + 1,
			Visibility: model.VisPublic,
			Metadata:   model.Metadata{Properties: []string{strings.TrimSpace(m[2])}},
		})
	}
	return items
}
