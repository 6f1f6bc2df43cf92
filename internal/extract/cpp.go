package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// CppExtractor is a C++ line scanner of its own (it shares only the
// parameter and doc-comment helpers with CExtractor): classes and structs
// with their methods flattened under OwnerName, free functions, and
// `template<...>` parameter lists recorded as Generics on the next class or
// free function. Namespace lines are skipped; `requires` clauses, #define
// macros, enums and prototypes are not recognized.
type CppExtractor struct {
	classRe    *regexp.Regexp
	methodRe   *regexp.Regexp
	namespcRe  *regexp.Regexp
	templateRe *regexp.Regexp
	freeFnRe   *regexp.Regexp
}

func NewCppExtractor() *CppExtractor {
	return &CppExtractor{
		classRe:    regexp.MustCompile(`^(class|struct)\s+([A-Za-z_][A-Za-z0-9_]*)\s*(:\s*(public|private|protected)\s+([A-Za-z_][A-Za-z0-9_:<>]*))?\s*\{?`),
		methodRe:   regexp.MustCompile(`^(public:|private:|protected:)?\s*(virtual\s+)?(static\s+)?([A-Za-z_][A-Za-z0-9_:<>,&*\s]*?)\s+([A-Za-z_~][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*(const)?\s*(override)?\s*\{`),
		namespcRe:  regexp.MustCompile(`^namespace\s+([A-Za-z_][A-Za-z0-9_]*)\s*\{?`),
		templateRe: regexp.MustCompile(`^template\s*<([^>]*)>`),
		freeFnRe:   regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_:<>,&*\s]*?)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*\{`),
	}
}

func (e *CppExtractor) Language() string { return "cpp" }

func (e *CppExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem
	var owner string
	var ownerEnd = -1
	var currentVis string
	var pendingGenerics []string

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if ownerEnd >= 0 && i > ownerEnd {
			owner = ""
			ownerEnd = -1
			currentVis = ""
		}

		if m := e.templateRe.FindStringSubmatch(trimmed); m != nil {
			pendingGenerics = splitParamList(m[1])
			continue
		}

		if m := e.namespcRe.FindStringSubmatch(trimmed); m != nil {
			_ = m
			continue // namespaces are not emitted as items; they only scope names
		}

		if m := e.classRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			kind := model.KindClass
			if m[1] == "struct" {
				kind = model.KindStruct
			}
			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       m[2],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: model.VisPublic,
				Metadata:   model.Metadata{BaseClasses: nonEmpty(m[5]), Generics: pendingGenerics},
			})
			owner = m[2]
			ownerEnd = end
			if m[1] == "struct" {
				currentVis = "public:"
			} else {
				currentVis = "private:"
			}
			pendingGenerics = nil
			continue
		}

		if owner != "" {
			if trimmed == "public:" || trimmed == "private:" || trimmed == "protected:" {
				currentVis = trimmed
				continue
			}
			m := e.methodRe.FindStringSubmatch(trimmed)
			if m == nil && (strings.HasPrefix(trimmed, owner+"(") || strings.HasPrefix(trimmed, "~"+owner+"(")) {
				// Constructors and destructors have no return type: match
				// them through the same pattern behind a placeholder type.
				if m = e.methodRe.FindStringSubmatch("void " + trimmed); m != nil {
					m[4] = ""
				}
			}
			if m != nil {
				end := matchBraces(lines, i)
				vis := m[1]
				if vis == "" {
					vis = currentVis
				}
				name := m[5]
				kind := model.KindMethod
				if name == owner {
					kind = model.KindConstructor
				} else if strings.HasPrefix(name, "~") {
					kind = model.KindMethod
				}
				items = append(items, model.ParsedItem{
					Kind:       kind,
					Name:       name,
					Signature:  trimmed,
					Source:     truncateSource(lines, i, end+1),
					DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
					StartLine:  i + 1,
					EndLine:    end + 1,
					Visibility: cppVisibility(vis),
					Metadata: model.Metadata{
						OwnerName:      owner,
						OwnerKind:      model.KindClass,
						IsStaticMember: m[3] != "",
						ReturnType:     strings.TrimSpace(m[4]),
						Parameters:     parseCParams(m[6]),
					},
				})
				continue
			}
		}

		if owner == "" {
			if m := e.freeFnRe.FindStringSubmatch(trimmed); m != nil {
				end := matchBraces(lines, i)
				generics := pendingGenerics
				pendingGenerics = nil
				items = append(items, model.ParsedItem{
					Kind:       model.KindFunction,
					Name:       m[2],
					Signature:  trimmed,
					Source:     truncateSource(lines, i, end+1),
					DocComment: collectBlockCommentDoc(lines, i, "/*", "*/"),
					StartLine:  i + 1,
					EndLine:    end + 1,
					Visibility: model.VisPublic,
					Metadata: model.Metadata{
						ReturnType: strings.TrimSpace(m[1]),
						Parameters: parseCParams(m[3]),
						Generics:   generics,
					},
				})
			}
		}
	}

	return items, nil
}

func cppVisibility(vis string) model.Visibility {
	switch vis {
	case "private:":
		return model.VisPrivate
	case "protected:":
		return model.VisProtected
	default:
		return model.VisPublic
	}
}
