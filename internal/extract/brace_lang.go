package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// braceProfile parameterizes BraceExtractor for one C-family language: the
// keywords, comment markers, and capture-group layout that differ between
// Java, C#, PHP, Kotlin, and Swift. The scanning algorithm itself —
// container detection, method flattening, visibility modifiers — is
// shared, since all five languages share the same brace-delimited,
// modifier-prefixed grammar.
type braceProfile struct {
	name             string
	containerRe      *regexp.Regexp
	containerNameIdx int
	methodRe         *regexp.Regexp
	methodNameIdx    int
	methodParamsIdx  int
	docOpen          string
	docClose         string
	lineComment      string
}

var javaProfile = braceProfile{
	name:             "java",
	containerRe:      regexp.MustCompile(`^(public|private|protected)?\s*(static\s+)?(final\s+)?(abstract\s+)?(class|interface|enum)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(<[^>]*>)?\s*(extends\s+([A-Za-z_$][A-Za-z0-9_$.<>]*))?\s*(implements\s+([^{]+))?\{?`),
	containerNameIdx: 6,
	methodRe:         regexp.MustCompile(`^(public|private|protected)?\s*(static\s+)?(final\s+)?(abstract\s+)?(synchronized\s+)?([A-Za-z_$][A-Za-z0-9_$<>\[\],.\s]*?)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*\(([^)]*)\)\s*(throws\s+[^{;]+)?\s*\{`),
	methodNameIdx:    7,
	methodParamsIdx:  8,
	docOpen:          "/**",
	docClose:         "*/",
	lineComment:      "//",
}

var csharpProfile = braceProfile{
	name:             "csharp",
	containerRe:      regexp.MustCompile(`^(public|private|protected|internal)?\s*(static\s+)?(sealed\s+)?(abstract\s+)?(partial\s+)?(class|interface|struct|enum|record)\s+([A-Za-z_][A-Za-z0-9_]*)\s*(<[^>]*>)?\s*(:\s*([^{]+))?\{?`),
	containerNameIdx: 7,
	methodRe:         regexp.MustCompile(`^(public|private|protected|internal)?\s*(static\s+)?(override\s+)?(virtual\s+)?(async\s+)?([A-Za-z_][A-Za-z0-9_<>\[\],.\s?]*?)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*\{`),
	methodNameIdx:    7,
	methodParamsIdx:  8,
	docOpen:          "///",
	docClose:         "",
	lineComment:      "///",
}

var phpProfile = braceProfile{
	name:             "php",
	containerRe:      regexp.MustCompile(`^(abstract\s+)?(final\s+)?class\s+([A-Za-z_][A-Za-z0-9_]*)\s*(extends\s+([A-Za-z_][A-Za-z0-9_]*))?\s*(implements\s+([^{]+))?\{?`),
	containerNameIdx: 3,
	methodRe:         regexp.MustCompile(`^(public|private|protected)?\s*(static\s+)?function\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*(:\s*[^{]+)?\{`),
	methodNameIdx:    3,
	methodParamsIdx:  4,
	docOpen:          "/**",
	docClose:         "*/",
	lineComment:      "//",
}

var kotlinProfile = braceProfile{
	name:             "kotlin",
	containerRe:      regexp.MustCompile(`^(public|private|internal)?\s*(open\s+)?(abstract\s+)?(data\s+)?(sealed\s+)?(class|interface|object|enum class)\s+([A-Za-z_][A-Za-z0-9_]*)\s*(\([^)]*\))?\s*(:\s*([^{]+))?\{?`),
	containerNameIdx: 7,
	methodRe:         regexp.MustCompile(`^(public|private|internal)?\s*(override\s+)?(open\s+)?(suspend\s+)?fun\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*(:\s*[^{]+)?\s*\{`),
	methodNameIdx:    5,
	methodParamsIdx:  6,
	docOpen:          "/**",
	docClose:         "*/",
	lineComment:      "//",
}

var swiftProfile = braceProfile{
	name:             "swift",
	containerRe:      regexp.MustCompile(`^(public|private|internal|fileprivate)?\s*(final\s+)?(class|struct|protocol|enum)\s+([A-Za-z_][A-Za-z0-9_]*)\s*(:\s*([^{]+))?\{?`),
	containerNameIdx: 4,
	methodRe:         regexp.MustCompile(`^(public|private|internal|fileprivate)?\s*(static\s+)?(override\s+)?func\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*(->\s*[^{]+)?\s*\{`),
	methodNameIdx:    4,
	methodParamsIdx:  5,
	docOpen:          "///",
	docClose:         "",
	lineComment:      "///",
}

// BraceExtractor is the shared scanner parameterized by a braceProfile.
type BraceExtractor struct {
	profile braceProfile
}

func NewBraceExtractor(p braceProfile) *BraceExtractor {
	return &BraceExtractor{profile: p}
}

func (e *BraceExtractor) Language() string { return e.profile.name }

func (e *BraceExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem
	p := e.profile
	var owner string
	var ownerEnd = -1

	doc := func(i int) string {
		if p.docClose == "" {
			return collectLineCommentDoc(lines, i, p.lineComment)
		}
		return collectBlockCommentDoc(lines, i, p.docOpen, p.docClose)
	}

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if ownerEnd >= 0 && i > ownerEnd {
			owner = ""
			ownerEnd = -1
		}

		if m := p.containerRe.FindStringSubmatch(trimmed); m != nil {
			name := m[p.containerNameIdx]
			end := matchBraces(lines, i)
			items = append(items, model.ParsedItem{
				Kind:       containerKind(trimmed),
				Name:       name,
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: doc(i),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: modifierVisibility(trimmed),
			})
			owner = name
			ownerEnd = end
			continue
		}

		if owner != "" {
			if m := p.methodRe.FindStringSubmatch(trimmed); m != nil {
				end := matchBraces(lines, i)
				name := m[p.methodNameIdx]
				params := m[p.methodParamsIdx]
				kind := model.KindMethod
				if name == owner || name == "__construct" || name == "init" {
					kind = model.KindConstructor
				}
				items = append(items, model.ParsedItem{
					Kind:       kind,
					Name:       name,
					Signature:  trimmed,
					Source:     truncateSource(lines, i, end+1),
					DocComment: doc(i),
					StartLine:  i + 1,
					EndLine:    end + 1,
					Visibility: modifierVisibility(trimmed),
					Metadata: model.Metadata{
						OwnerName:      owner,
						OwnerKind:      model.KindClass,
						IsStaticMember: strings.Contains(trimmed, "static "),
						Parameters:     parseTSParams(params),
					},
				})
				continue
			}
		}
	}

	return items, nil
}

func containerKind(line string) model.Kind {
	switch {
	case strings.Contains(line, "interface"):
		return model.KindInterface
	case strings.Contains(line, "enum"):
		return model.KindEnum
	case strings.Contains(line, "protocol"):
		return model.KindInterface
	case strings.Contains(line, "struct"):
		return model.KindStruct
	default:
		return model.KindClass
	}
}

func modifierVisibility(line string) model.Visibility {
	switch {
	case strings.Contains(line, "private"):
		return model.VisPrivate
	case strings.Contains(line, "protected"):
		return model.VisProtected
	case strings.Contains(line, "fileprivate"):
		return model.VisPrivate
	case strings.Contains(line, "internal"):
		return model.VisPublicCrate
	case strings.Contains(line, "public"):
		return model.VisPublic
	default:
		return model.VisPublic
	}
}
