package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// GoExtractor scans Go source with line-oriented regexes, the same style
// the teacher's own identifier/metadata extractors use rather than
// go/parser: Zenith's extractor layer never imports a language's own AST
// tooling, to keep every language behind one uniform contract.
type GoExtractor struct {
	funcRe   *regexp.Regexp
	methodRe *regexp.Regexp
	typeRe   *regexp.Regexp
	constRe  *regexp.Regexp
	varRe    *regexp.Regexp
}

func NewGoExtractor() *GoExtractor {
	return &GoExtractor{
		funcRe:   regexp.MustCompile(`^func\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*(\([^)]*\)|[^{]*)?\s*\{?`),
		methodRe: regexp.MustCompile(`^func\s+\(([^)]*)\)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*(\([^)]*\)|[^{]*)?\s*\{?`),
		typeRe:   regexp.MustCompile(`^type\s+([A-Za-z_][A-Za-z0-9_]*)\s+(struct|interface)\s*\{`),
		constRe:  regexp.MustCompile(`^const\s+([A-Za-z_][A-Za-z0-9_]*)\s*(.*)`),
		varRe:    regexp.MustCompile(`^var\s+([A-Za-z_][A-Za-z0-9_]*)\s+(.*)`),
	}
}

func (e *GoExtractor) Language() string { return "go" }

func (e *GoExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := e.methodRe.FindStringSubmatch(trimmed); m != nil {
			recv := m[1]
			ownerName := lastField(recv)
			end := matchBraces(lines, i)
			items = append(items, model.ParsedItem{
				Kind:       model.KindMethod,
				Name:       m[2],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectLineCommentDoc(lines, i, "//"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: goVisibility(m[2]),
				Metadata: model.Metadata{
					OwnerName:  ownerName,
					OwnerKind:  model.KindStruct,
					Parameters: parseGoParams(m[3]),
					ReturnType: strings.TrimSpace(m[4]),
				},
			})
			continue
		}

		if m := e.funcRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			kind := model.KindFunction
			var owner string
			var ownerKind model.Kind
			// A NewX function returning X or *X is Go's constructor idiom.
			if ret := strings.TrimPrefix(strings.TrimSpace(m[3]), "*"); ret != "" && strings.HasPrefix(m[1], "New") && ret == m[1][3:] {
				kind = model.KindConstructor
				owner = ret
				ownerKind = model.KindStruct
			}
			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       m[1],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectLineCommentDoc(lines, i, "//"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: goVisibility(m[1]),
				Metadata: model.Metadata{
					OwnerName:  owner,
					OwnerKind:  ownerKind,
					Parameters: parseGoParams(m[2]),
					ReturnType: strings.TrimSpace(m[3]),
				},
			})
			continue
		}

		if m := e.typeRe.FindStringSubmatch(trimmed); m != nil {
			kind := model.KindStruct
			if m[2] == "interface" {
				kind = model.KindInterface
			}
			end := matchBraces(lines, i)
			body := lines[i+1 : min(end, len(lines))]
			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       m[1],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectLineCommentDoc(lines, i, "//"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: goVisibility(m[1]),
				Metadata: model.Metadata{
					Fields: goFieldNames(body),
				},
			})
			continue
		}

		if m := e.constRe.FindStringSubmatch(trimmed); m != nil && !strings.Contains(trimmed, "(") {
			items = append(items, model.ParsedItem{
				Kind:       model.KindConst,
				Name:       m[1],
				Signature:  trimmed,
				DocComment: collectLineCommentDoc(lines, i, "//"),
				StartLine:  i + 1,
				EndLine:    i + 1,
				Visibility: goVisibility(m[1]),
			})
			continue
		}
	}

	return items, nil
}

// goVisibility implements Go's exported/unexported rule: an identifier
// starting with an uppercase letter is public.
func goVisibility(name string) model.Visibility {
	if name == "" {
		return model.VisPrivate
	}
	r := rune(name[0])
	if r >= 'A' && r <= 'Z' {
		return model.VisPublic
	}
	return model.VisPrivate
}

func lastField(recv string) string {
	recv = strings.TrimSpace(recv)
	fields := strings.Fields(recv)
	if len(fields) == 0 {
		return recv
	}
	t := fields[len(fields)-1]
	return strings.TrimPrefix(t, "*")
}

func parseGoParams(raw string) []model.Parameter {
	fields := splitParamList(raw)
	var params []model.Parameter
	for _, f := range fields {
		parts := strings.Fields(f)
		if len(parts) == 0 {
			continue
		}
		if len(parts) == 1 {
			params = append(params, model.Parameter{Type: parts[0]})
			continue
		}
		params = append(params, model.Parameter{Name: parts[0], Type: strings.Join(parts[1:], " ")})
	}
	return params
}

func goFieldNames(body []string) []string {
	var fields []string
	for _, l := range body {
		t := strings.TrimSpace(l)
		if t == "" || strings.HasPrefix(t, "//") {
			continue
		}
		fields = append(fields, strings.Fields(t)[0])
	}
	return fields
}
