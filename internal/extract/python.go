package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// PythonExtractor scans indentation-delimited Python source: a def/class's
// body is everything more deeply indented than the def/class line itself,
// ending at the first line back at or above that indentation.
type PythonExtractor struct {
	defRe   *regexp.Regexp
	classRe *regexp.Regexp
	decoRe  *regexp.Regexp
}

func NewPythonExtractor() *PythonExtractor {
	return &PythonExtractor{
		defRe:   regexp.MustCompile(`^(async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*(->\s*[^:]+)?:`),
		classRe: regexp.MustCompile(`^class\s+([A-Za-z_][A-Za-z0-9_]*)\s*(\(([^)]*)\))?:`),
		decoRe:  regexp.MustCompile(`^@([A-Za-z_][A-Za-z0-9_.]*)`),
	}
}

func (e *PythonExtractor) Language() string { return "python" }

func (e *PythonExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem
	var ownerStack []pyOwner

	for i := 0; i < len(lines); i++ {
		raw := lines[i]
		if isBlank(raw) {
			continue
		}
		indent := indentOf(raw)
		trimmed := strings.TrimSpace(raw)

		for len(ownerStack) > 0 && indent <= ownerStack[len(ownerStack)-1].indent {
			ownerStack = ownerStack[:len(ownerStack)-1]
		}

		decorators := collectDecorators(lines, i, e.decoRe)

		if m := e.classRe.FindStringSubmatch(trimmed); m != nil {
			end := indentBlockEnd(lines, i, indent)
			bases := splitParamList(m[3])
			isProtocol := containsAny(bases, "Protocol")
			isEnum := containsAny(bases, "Enum", "IntEnum", "StrEnum")

			kind := model.KindClass
			var variants []string
			switch {
			case isProtocol:
				kind = model.KindInterface
			case isEnum:
				kind = model.KindEnum
				variants = pyEnumVariants(lines, i+1, end, indent)
			}

			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       m[1],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: pyDocstring(lines, i, end),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: pyVisibility(m[1]),
				Metadata: model.Metadata{
					BaseClasses: bases,
					Decorators:  decorators,
					IsDataclass: containsFold(decorators, "dataclass"),
					IsProtocol:  isProtocol,
					IsEnum:      isEnum,
					Variants:    variants,
				},
			})
			ownerStack = append(ownerStack, pyOwner{name: m[1], indent: indent})
			continue
		}

		if m := e.defRe.FindStringSubmatch(trimmed); m != nil {
			end := indentBlockEnd(lines, i, indent)
			kind := model.KindFunction
			var owner string
			if len(ownerStack) > 0 {
				kind = model.KindMethod
				owner = ownerStack[len(ownerStack)-1].name
				if m[2] == "__init__" {
					kind = model.KindConstructor
				}
			}
			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       m[2],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: pyDocstring(lines, i, end),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: pyVisibility(m[2]),
				Metadata: model.Metadata{
					OwnerName:      owner,
					OwnerKind:      model.KindClass,
					IsStaticMember: containsFold(decorators, "staticmethod"),
					IsAsync:        m[1] != "",
					Parameters:     parsePyParams(m[3]),
					ReturnType:     strings.TrimSpace(strings.TrimPrefix(m[4], "->")),
					Decorators:     decorators,
				},
			})
		}
	}

	return items, nil
}

type pyOwner struct {
	name   string
	indent int
}

func collectDecorators(lines []string, idx int, re *regexp.Regexp) []string {
	var decos []string
	i := idx - 1
	for i >= 0 {
		t := strings.TrimSpace(lines[i])
		if t == "" {
			break
		}
		m := re.FindStringSubmatch(t)
		if m == nil {
			break
		}
		decos = append([]string{m[1]}, decos...)
		i--
	}
	return decos
}

// indentBlockEnd finds the last line of the block opened at idx (whose
// header is indented `indent` columns): the line before the next
// non-blank line indented <= `indent`.
func indentBlockEnd(lines []string, idx, indent int) int {
	last := idx
	for i := idx + 1; i < len(lines); i++ {
		if isBlank(lines[i]) {
			continue
		}
		if indentOf(lines[i]) <= indent {
			return last
		}
		last = i
	}
	return last
}

// pyDocstring returns the triple-quoted docstring immediately following a
// def/class header, if present.
func pyDocstring(lines []string, headerIdx, blockEnd int) string {
	for i := headerIdx + 1; i <= blockEnd && i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if t == "" {
			continue
		}
		quote := ""
		switch {
		case strings.HasPrefix(t, `"""`):
			quote = `"""`
		case strings.HasPrefix(t, `'''`):
			quote = `'''`
		default:
			return ""
		}
		rest := strings.TrimPrefix(t, quote)
		if end := strings.Index(rest, quote); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		var body []string
		body = append(body, rest)
		for j := i + 1; j <= blockEnd && j < len(lines); j++ {
			if end := strings.Index(lines[j], quote); end >= 0 {
				body = append(body, lines[j][:end])
				return strings.TrimSpace(strings.Join(body, "\n"))
			}
			body = append(body, lines[j])
		}
		return strings.TrimSpace(strings.Join(body, "\n"))
	}
	return ""
}

func pyVisibility(name string) model.Visibility {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return model.VisPublic
	}
	if strings.HasPrefix(name, "_") {
		return model.VisPrivate
	}
	return model.VisPublic
}

func parsePyParams(raw string) []model.Parameter {
	fields := splitParamList(raw)
	var params []model.Parameter
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "self" || f == "cls" {
			params = append(params, model.Parameter{Name: f})
			continue
		}
		name, typ, def := f, "", ""
		if eq := strings.Index(f, "="); eq >= 0 {
			def = strings.TrimSpace(f[eq+1:])
			name = strings.TrimSpace(f[:eq])
		}
		if colon := strings.Index(name, ":"); colon >= 0 {
			typ = strings.TrimSpace(name[colon+1:])
			name = strings.TrimSpace(name[:colon])
		}
		params = append(params, model.Parameter{Name: name, Type: typ, Default: def})
	}
	return params
}

var pyEnumMemberRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=`)

// pyEnumVariants collects an Enum subclass's direct member assignments
// (`NAME = value`), the Python equivalent of Rust's bare enum variants:
// only lines at the body's own indent are members, deeper-indented lines
// belong to a nested def/class and are skipped.
func pyEnumVariants(lines []string, start, end, classIndent int) []string {
	var variants []string
	memberIndent := -1
	for i := start; i <= end && i < len(lines); i++ {
		if isBlank(lines[i]) {
			continue
		}
		indent := indentOf(lines[i])
		if indent <= classIndent {
			break
		}
		if memberIndent == -1 {
			memberIndent = indent
		}
		if indent != memberIndent {
			continue
		}
		if m := pyEnumMemberRe.FindStringSubmatch(strings.TrimSpace(lines[i])); m != nil {
			variants = append(variants, m[1])
		}
	}
	return variants
}

func containsFold(list []string, target string) bool {
	for _, s := range list {
		if strings.EqualFold(s, target) {
			return true
		}
	}
	return false
}

func containsAny(list []string, targets ...string) bool {
	for _, s := range list {
		s = strings.TrimSpace(s)
		for _, target := range targets {
			if s == target || strings.HasSuffix(s, "."+target) {
				return true
			}
		}
	}
	return false
}
