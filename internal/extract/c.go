package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// CExtractor scans C source: function definitions (skipping prototypes,
// which end in `;` rather than opening a brace), struct and enum
// definitions (named, or typedef'd with the alias read from the closing
// `} Name;` line), and #define macros. Unions are not recognized.
type CExtractor struct {
	fnRe      *regexp.Regexp
	structRe  *regexp.Regexp
	enumRe    *regexp.Regexp
	defineRe  *regexp.Regexp
	typedefRe *regexp.Regexp
}

func NewCExtractor() *CExtractor {
	return &CExtractor{
		fnRe:      regexp.MustCompile(`^(static\s+)?(inline\s+)?([A-Za-z_][A-Za-z0-9_ ]*?\*?)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*\{`),
		structRe:  regexp.MustCompile(`^(typedef\s+)?struct\s+([A-Za-z_][A-Za-z0-9_]*)?\s*\{`),
		enumRe:    regexp.MustCompile(`^(typedef\s+)?enum\s+([A-Za-z_][A-Za-z0-9_]*)?\s*\{`),
		defineRe:  regexp.MustCompile(`^#define\s+([A-Za-z_][A-Za-z0-9_]*)(\([^)]*\))?\s+(.*)`),
		typedefRe: regexp.MustCompile(`^\}\s*([A-Za-z_][A-Za-z0-9_]*)\s*;`),
	}
}

func (e *CExtractor) Language() string { return "c" }

func (e *CExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		if m := e.structRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			name := m[2]
			if name == "" {
				name = typedefNameAfter(lines, end)
			}
			if name == "" {
				continue
			}
			items = append(items, model.ParsedItem{
				Kind:       model.KindStruct,
				Name:       name,
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: model.VisPublic,
				Metadata:   model.Metadata{Fields: cMemberNames(lines[i+1 : clampEnd(end, len(lines))])},
			})
			continue
		}

		if m := e.enumRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			name := m[2]
			if name == "" {
				name = typedefNameAfter(lines, end)
			}
			if name == "" {
				continue
			}
			items = append(items, model.ParsedItem{
				Kind:       model.KindEnum,
				Name:       name,
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: model.VisPublic,
				Metadata:   model.Metadata{Variants: rustEnumVariants(lines[i+1 : clampEnd(end, len(lines))])},
			})
			continue
		}

		if m := e.defineRe.FindStringSubmatch(trimmed); m != nil {
			items = append(items, model.ParsedItem{
				Kind:       model.KindMacro,
				Name:       m[1],
				Signature:  trimmed,
				DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
				StartLine:  i + 1,
				EndLine:    i + 1,
				Visibility: model.VisPublic,
			})
			continue
		}

		if m := e.fnRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			items = append(items, model.ParsedItem{
				Kind:       model.KindFunction,
				Name:       m[4],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: cVisibility(m[1]),
				Metadata: model.Metadata{
					ReturnType: strings.TrimSpace(m[3]),
					Parameters: parseCParams(m[5]),
				},
			})
		}
	}

	return items, nil
}

func cVisibility(staticPrefix string) model.Visibility {
	if strings.TrimSpace(staticPrefix) == "static" {
		return model.VisPrivate
	}
	return model.VisPublic
}

var typedefTailRe = regexp.MustCompile(`\}\s*([A-Za-z_][A-Za-z0-9_]*)\s*;`)

// typedefNameAfter reads the alias name off a `} Name;` line closing a
// `typedef struct { ... } Name;` block.
func typedefNameAfter(lines []string, closeLineIdx int) string {
	if closeLineIdx < 0 || closeLineIdx >= len(lines) {
		return ""
	}
	if m := typedefTailRe.FindStringSubmatch(lines[closeLineIdx]); m != nil {
		return m[1]
	}
	return ""
}

func clampEnd(end, length int) int {
	if end > length {
		return length
	}
	return end
}

func cMemberNames(body []string) []string {
	var names []string
	for _, l := range body {
		t := strings.TrimSpace(l)
		t = strings.TrimSuffix(t, ";")
		if t == "" || strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "//") {
			continue
		}
		fields := strings.Fields(t)
		if len(fields) == 0 {
			continue
		}
		last := fields[len(fields)-1]
		last = strings.TrimPrefix(last, "*")
		if idx := strings.Index(last, "["); idx >= 0 {
			last = last[:idx]
		}
		if last != "" {
			names = append(names, last)
		}
	}
	return names
}

func parseCParams(raw string) []model.Parameter {
	fields := splitParamList(raw)
	var params []model.Parameter
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "void" || f == "" {
			continue
		}
		parts := strings.Fields(f)
		if len(parts) == 0 {
			continue
		}
		name := strings.TrimPrefix(parts[len(parts)-1], "*")
		typ := strings.Join(parts[:len(parts)-1], " ")
		if strings.HasPrefix(parts[len(parts)-1], "*") {
			typ += " *"
		}
		params = append(params, model.Parameter{Name: name, Type: strings.TrimSpace(typ)})
	}
	return params
}
