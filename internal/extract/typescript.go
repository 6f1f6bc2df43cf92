package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// TypeScriptExtractor scans .ts source: functions, arrow-function consts,
// classes (with method flattening), interfaces, type aliases, and enums.
type TypeScriptExtractor struct {
	funcRe      *regexp.Regexp
	arrowRe     *regexp.Regexp
	classRe     *regexp.Regexp
	interfaceRe *regexp.Regexp
	typeRe      *regexp.Regexp
	enumRe      *regexp.Regexp
	methodRe    *regexp.Regexp
}

func newTSPatterns() (funcRe, arrowRe, classRe, interfaceRe, typeRe, enumRe, methodRe *regexp.Regexp) {
	funcRe = regexp.MustCompile(`^(export\s+)?(default\s+)?(async\s+)?function\s*\*?\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(<[^>]*>)?\s*\(([^)]*)\)\s*(:\s*[^{]+)?\{?`)
	arrowRe = regexp.MustCompile(`^(export\s+)?(const|let)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(:\s*[^=]+)?=\s*(async\s+)?\(([^)]*)\)\s*(:\s*[^=]+)?=>`)
	classRe = regexp.MustCompile(`^(export\s+)?(default\s+)?(abstract\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(extends\s+([A-Za-z_$][A-Za-z0-9_$.<>]*))?\s*(implements\s+([^{]+))?\{?`)
	interfaceRe = regexp.MustCompile(`^(export\s+)?interface\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(extends\s+([^{]+))?\{?`)
	typeRe = regexp.MustCompile(`^(export\s+)?type\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(<[^>]*>)?\s*=`)
	enumRe = regexp.MustCompile(`^(export\s+)?(const\s+)?enum\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*\{?`)
	methodRe = regexp.MustCompile(`^(public\s+|private\s+|protected\s+)?(static\s+)?(async\s+)?\*?\s*([A-Za-z_$][A-Za-z0-9_$]*)\s*\(([^)]*)\)\s*(:\s*[^{]+)?\{`)
	return
}

func NewTypeScriptExtractor() *TypeScriptExtractor {
	f, a, c, i, t, en, me := newTSPatterns()
	return &TypeScriptExtractor{funcRe: f, arrowRe: a, classRe: c, interfaceRe: i, typeRe: t, enumRe: en, methodRe: me}
}

func (e *TypeScriptExtractor) Language() string { return "typescript" }

func (e *TypeScriptExtractor) Extract(content string) ([]model.ParsedItem, error) {
	return extractTSFamily(content, e.funcRe, e.arrowRe, e.classRe, e.interfaceRe, e.typeRe, e.enumRe, e.methodRe, false)
}

// extractTSFamily is the shared engine behind TypeScript, TSX, and
// JavaScript: the three languages differ only in whether JSX/hooks
// metadata is collected, toggled by withJSX.
func extractTSFamily(content string, funcRe, arrowRe, classRe, interfaceRe, typeRe, enumRe, methodRe *regexp.Regexp, withJSX bool) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem
	var classEnd = -1
	var className string

	directive := ""
	if len(lines) > 0 {
		t := strings.TrimSpace(lines[0])
		if t == `"use client";` || t == `'use client';` {
			directive = "use client"
		} else if t == `"use server";` || t == `'use server';` {
			directive = "use server"
		}
	}

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if classEnd >= 0 && i > classEnd {
			classEnd = -1
			className = ""
		}

		if m := classRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			items = append(items, model.ParsedItem{
				Kind:       model.KindClass,
				Name:       m[4],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/**", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: tsVisibility(m[1]),
				Metadata: model.Metadata{
					BaseClasses: nonEmpty(m[6], m[8]),
				},
			})
			classEnd = end
			className = m[4]
			continue
		}

		if classEnd >= 0 {
			if m := methodRe.FindStringSubmatch(trimmed); m != nil {
				end := matchBraces(lines, i)
				kind := model.KindMethod
				if m[4] == "constructor" {
					kind = model.KindConstructor
				}
				items = append(items, model.ParsedItem{
					Kind:       kind,
					Name:       m[4],
					Signature:  trimmed,
					Source:     truncateSource(lines, i, end+1),
					DocComment: collectBlockCommentDoc(lines, i, "/**", "*/"),
					StartLine:  i + 1,
					EndLine:    end + 1,
					Visibility: methodVisibility(m[1]),
					Metadata: model.Metadata{
						OwnerName:      className,
						OwnerKind:      model.KindClass,
						IsStaticMember: m[2] != "",
						IsAsync:        m[3] != "",
						Parameters:     parseTSParams(m[5]),
						ReturnType:     strings.TrimSpace(strings.TrimPrefix(m[6], ":")),
					},
				})
				continue
			}
		}

		if m := interfaceRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			items = append(items, model.ParsedItem{
				Kind:       model.KindInterface,
				Name:       m[2],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/**", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: tsVisibility(m[1]),
				Metadata:   model.Metadata{BaseClasses: splitParamList(m[4])},
			})
			continue
		}

		if m := enumRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			items = append(items, model.ParsedItem{
				Kind:       model.KindEnum,
				Name:       m[3],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/**", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: tsVisibility(m[1]),
			})
			continue
		}

		if m := typeRe.FindStringSubmatch(trimmed); m != nil {
			items = append(items, model.ParsedItem{
				Kind:       model.KindTypeAlias,
				Name:       m[2],
				Signature:  trimmed,
				DocComment: collectBlockCommentDoc(lines, i, "/**", "*/"),
				StartLine:  i + 1,
				EndLine:    i + 1,
				Visibility: tsVisibility(m[1]),
			})
			continue
		}

		if m := arrowRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			if end == i && !strings.Contains(trimmed, "{") {
				end = i
			}
			meta := model.Metadata{
				IsAsync:    m[5] != "",
				Parameters: parseTSParams(m[6]),
				ReturnType: strings.TrimSpace(strings.TrimPrefix(m[7], ":")),
			}
			kind := model.KindFunction
			if withJSX {
				if r := []rune(m[3]); len(r) > 0 && r[0] >= 'A' && r[0] <= 'Z' {
					kind = model.KindComponent
					meta.HooksUsed = findHooks(truncateSource(lines, i, end+1))
					meta.Directive = directive
				}
			}
			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       m[3],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/**", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: tsVisibility(m[1]),
				Metadata:   meta,
			})
			continue
		}

		if m := funcRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			meta := model.Metadata{
				IsAsync:    m[3] != "",
				Parameters: parseTSParams(m[6]),
				ReturnType: strings.TrimSpace(strings.TrimPrefix(m[7], ":")),
			}
			kind := model.KindFunction
			if withJSX {
				if r := []rune(m[4]); len(r) > 0 && r[0] >= 'A' && r[0] <= 'Z' {
					kind = model.KindComponent
					meta.HooksUsed = findHooks(truncateSource(lines, i, end+1))
					meta.Directive = directive
				}
			}
			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       m[4],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/**", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: tsVisibility(m[1]),
				Metadata:   meta,
			})
		}
	}

	return items, nil
}

var hookRe = regexp.MustCompile(`\buse[A-Z][A-Za-z0-9_]*\b`)

func findHooks(source string) []string {
	matches := hookRe.FindAllString(source, -1)
	seen := map[string]bool{}
	var hooks []string
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			hooks = append(hooks, m)
		}
	}
	return hooks
}

func tsVisibility(exportPrefix string) model.Visibility {
	if strings.TrimSpace(exportPrefix) == "export" {
		return model.VisExport
	}
	return model.VisPrivate
}

func methodVisibility(mod string) model.Visibility {
	switch strings.TrimSpace(mod) {
	case "private":
		return model.VisPrivate
	case "protected":
		return model.VisProtected
	default:
		return model.VisPublic
	}
}

func parseTSParams(raw string) []model.Parameter {
	fields := splitParamList(raw)
	var params []model.Parameter
	for _, f := range fields {
		f = strings.TrimSpace(f)
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

func nonEmpty(vals ...string) []string {
	var out []string
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
