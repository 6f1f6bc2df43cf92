package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// endKeywordProfile parameterizes EndKeywordExtractor for languages whose
// blocks close with a literal `end` keyword rather than a brace (Ruby,
// Lua). Both track block depth identically; only the opening keywords and
// comment syntax differ.
type endKeywordProfile struct {
	name        string
	classRe     *regexp.Regexp
	methodRe    *regexp.Regexp
	opensBlock  *regexp.Regexp // any line that opens a nested block needing its own `end` (def/class/function, if/do/while)
	lineComment string
}

var rubyProfile = endKeywordProfile{
	name:        "ruby",
	classRe:     regexp.MustCompile(`^class\s+([A-Za-z_][A-Za-z0-9_:]*)\s*(<\s*([A-Za-z_][A-Za-z0-9_:]*))?`),
	methodRe:    regexp.MustCompile(`^def\s+(self\.)?([A-Za-z_][A-Za-z0-9_?!=]*)\s*(\(([^)]*)\))?`),
	opensBlock:  regexp.MustCompile(`^(def|class|module)\b|\b(do|if|unless|while|until|case|begin|module)\b\s*(\|[^|]*\|)?\s*$`),
	lineComment: "#",
}

var luaProfile = endKeywordProfile{
	name:        "lua",
	classRe:     regexp.MustCompile(`^(local\s+)?([A-Za-z_][A-Za-z0-9_.]*)\s*=\s*\{\s*\}`), // Lua "class" tables, rare; mostly functions
	methodRe:    regexp.MustCompile(`^(local\s+)?function\s+([A-Za-z_][A-Za-z0-9_.:]*)\s*\(([^)]*)\)`),
	opensBlock:  regexp.MustCompile(`^(local\s+)?function\b|\b(do|then)\b\s*$`),
	lineComment: "--",
}

// EndKeywordExtractor is the shared scanner for end-keyword-delimited
// languages.
type EndKeywordExtractor struct {
	profile endKeywordProfile
}

func NewEndKeywordExtractor(p endKeywordProfile) *EndKeywordExtractor {
	return &EndKeywordExtractor{profile: p}
}

func (e *EndKeywordExtractor) Language() string { return e.profile.name }

func (e *EndKeywordExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	p := e.profile
	var items []model.ParsedItem
	var owner string
	var ownerEnd = -1

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if ownerEnd >= 0 && i > ownerEnd {
			owner = ""
			ownerEnd = -1
		}

		if p.name == "ruby" {
			if m := p.classRe.FindStringSubmatch(trimmed); m != nil {
				end := endKeywordBlockEnd(lines, i, p.opensBlock)
				items = append(items, model.ParsedItem{
					Kind:       model.KindClass,
					Name:       m[1],
					Signature:  trimmed,
					Source:     truncateSource(lines, i, end+1),
					DocComment: collectLineCommentDoc(lines, i, p.lineComment),
					StartLine:  i + 1,
					EndLine:    end + 1,
					Visibility: model.VisPublic,
					Metadata:   model.Metadata{BaseClasses: nonEmpty(m[3])},
				})
				owner = m[1]
				ownerEnd = end
				continue
			}
		}

		if m := p.methodRe.FindStringSubmatch(trimmed); m != nil {
			end := endKeywordBlockEnd(lines, i, p.opensBlock)
			name := m[2]
			isStatic := p.name == "ruby" && m[1] != ""
			kind := model.KindFunction
			var ownerName string
			if owner != "" {
				kind = model.KindMethod
				ownerName = owner
				if name == "initialize" {
					kind = model.KindConstructor
				}
			}
			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       name,
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectLineCommentDoc(lines, i, p.lineComment),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: rubyLuaVisibility(name),
				Metadata: model.Metadata{
					OwnerName:      ownerName,
					OwnerKind:      model.KindClass,
					IsStaticMember: isStatic,
					Parameters:     parseTSParams(methodParams(p.name, m)),
				},
			})
		}
	}

	return items, nil
}

func methodParams(lang string, m []string) string {
	if lang == "ruby" {
		return m[4]
	}
	return m[3]
}

// endKeywordBlockEnd scans forward from a def/class/function line counting
// every keyword that opens a nested block (and every `end`) to find the
// matching terminator, since Ruby/Lua have no braces to balance.
func endKeywordBlockEnd(lines []string, start int, opensBlock *regexp.Regexp) int {
	depth := 1
	inlineEnd := regexp.MustCompile(`\bend\s*$`)
	for i := start + 1; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if t == "end" || inlineEnd.MatchString(t) {
			depth--
			if depth == 0 {
				return i
			}
			continue
		}
		if opensBlock.MatchString(t) && !strings.Contains(t, "#") {
			depth++
		}
	}
	return len(lines) - 1
}

func rubyLuaVisibility(name string) model.Visibility {
	if strings.HasPrefix(name, "_") {
		return model.VisPrivate
	}
	return model.VisPublic
}
