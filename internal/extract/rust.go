package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// RustExtractor scans Rust source for fn/struct/enum/trait/impl/const/type
// items. impl blocks are flattened: the methods inside an `impl Foo` or
// `impl Trait for Foo` block are emitted as top-level method ParsedItems
// with OwnerName set to Foo (universal contract #2), not nested.
type RustExtractor struct {
	fnRe      *regexp.Regexp
	structRe  *regexp.Regexp
	enumRe    *regexp.Regexp
	traitRe   *regexp.Regexp
	implRe    *regexp.Regexp
	constRe   *regexp.Regexp
	typeRe    *regexp.Regexp
}

func NewRustExtractor() *RustExtractor {
	return &RustExtractor{
		fnRe:     regexp.MustCompile(`^(pub(\(crate\))?\s+)?(async\s+)?(unsafe\s+)?fn\s+([A-Za-z_][A-Za-z0-9_]*)\s*(<[^>]*>)?\s*\(([^)]*)\)\s*(->\s*[^{;]+)?`),
		structRe: regexp.MustCompile(`^(pub(\(crate\))?\s+)?struct\s+([A-Za-z_][A-Za-z0-9_]*)`),
		enumRe:   regexp.MustCompile(`^(pub(\(crate\))?\s+)?enum\s+([A-Za-z_][A-Za-z0-9_]*)`),
		traitRe:  regexp.MustCompile(`^(pub(\(crate\))?\s+)?trait\s+([A-Za-z_][A-Za-z0-9_]*)`),
		implRe:   regexp.MustCompile(`^impl(<[^>]*>)?\s+(?:([A-Za-z_][A-Za-z0-9_:<>]*)\s+for\s+)?([A-Za-z_][A-Za-z0-9_:<>]*)`),
		constRe:  regexp.MustCompile(`^(pub(\(crate\))?\s+)?const\s+([A-Za-z_][A-Za-z0-9_]*)\s*:\s*([^=]+)=`),
		typeRe:   regexp.MustCompile(`^(pub(\(crate\))?\s+)?type\s+([A-Za-z_][A-Za-z0-9_]*)\s*=`),
	}
}

func (e *RustExtractor) Language() string { return "rust" }

func (e *RustExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem

	// implStack tracks the impl (or trait) blocks we're currently inside,
	// so nested fn items are re-emitted flattened with owner metadata
	// instead of being dropped (no-leak rule).
	var implStack []implFrame

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		for len(implStack) > 0 && i > implStack[len(implStack)-1].end {
			implStack = implStack[:len(implStack)-1]
		}

		if m := e.implRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			implStack = append(implStack, implFrame{forType: m[3], traitName: m[2], end: end})
			continue
		}

		if m := e.structRe.FindStringSubmatch(trimmed); m != nil {
			end := e.blockOrStatementEnd(lines, i)
			items = append(items, model.ParsedItem{
				Kind:       model.KindStruct,
				Name:       m[3],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectLineCommentDoc(lines, i, "///"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: rustVisibility(m[1]),
			})
			continue
		}

		if m := e.enumRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			variants := rustEnumVariants(lines[i+1 : min(end, len(lines))])
			items = append(items, model.ParsedItem{
				Kind:       model.KindEnum,
				Name:       m[3],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectLineCommentDoc(lines, i, "///"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: rustVisibility(m[1]),
				Metadata:   model.Metadata{Variants: variants, IsErrorType: strings.HasSuffix(m[3], "Error")},
			})
			continue
		}

		if m := e.traitRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			implStack = append(implStack, implFrame{traitName: m[3], end: end})
			items = append(items, model.ParsedItem{
				Kind:       model.KindTrait,
				Name:       m[3],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectLineCommentDoc(lines, i, "///"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: rustVisibility(m[1]),
			})
			continue
		}

		if m := e.constRe.FindStringSubmatch(trimmed); m != nil {
			items = append(items, model.ParsedItem{
				Kind:       model.KindConst,
				Name:       m[3],
				Signature:  trimmed,
				DocComment: collectLineCommentDoc(lines, i, "///"),
				StartLine:  i + 1,
				EndLine:    i + 1,
				Visibility: rustVisibility(m[1]),
				Metadata:   model.Metadata{ReturnType: strings.TrimSpace(m[4])},
			})
			continue
		}

		if m := e.typeRe.FindStringSubmatch(trimmed); m != nil {
			items = append(items, model.ParsedItem{
				Kind:       model.KindTypeAlias,
				Name:       m[3],
				Signature:  trimmed,
				DocComment: collectLineCommentDoc(lines, i, "///"),
				StartLine:  i + 1,
				EndLine:    i + 1,
				Visibility: rustVisibility(m[1]),
			})
			continue
		}

		if m := e.fnRe.FindStringSubmatch(trimmed); m != nil {
			end := matchBraces(lines, i)
			name := m[5]
			var owner string
			var traitName, forType string
			ownerKind := model.KindStruct
			kind := model.KindFunction
			if len(implStack) > 0 {
				frame := implStack[len(implStack)-1]
				owner = frame.forType
				traitName = frame.traitName
				forType = frame.forType
				if owner == "" {
					// inside a trait definition: the trait owns the method
					owner = frame.traitName
					ownerKind = model.KindTrait
				}
				kind = model.KindMethod
				if name == "new" {
					kind = model.KindConstructor
				}
			}
			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       name,
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: collectLineCommentDoc(lines, i, "///"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: rustVisibility(m[1]),
				Metadata: model.Metadata{
					OwnerName:     owner,
					OwnerKind:     ownerKind,
					TraitName:     traitName,
					ForType:       forType,
					IsAsync:       m[3] != "",
					IsUnsafe:      m[4] != "",
					Parameters:    parseRustParams(m[7]),
					ReturnType:    strings.TrimSpace(strings.TrimPrefix(m[8], "->")),
					ReturnsResult: strings.Contains(m[8], "Result<"),
				},
			})
		}
	}

	return items, nil
}

type implFrame struct {
	forType   string
	traitName string
	end       int
}

func (e *RustExtractor) blockOrStatementEnd(lines []string, start int) int {
	if strings.Contains(lines[start], "{") {
		return matchBraces(lines, start)
	}
	for i := start; i < len(lines); i++ {
		if strings.Contains(lines[i], ";") {
			return i
		}
		if strings.Contains(lines[i], "{") {
			return matchBraces(lines, i)
		}
	}
	return start
}

func rustVisibility(pubPrefix string) model.Visibility {
	pubPrefix = strings.TrimSpace(pubPrefix)
	switch {
	case strings.HasPrefix(pubPrefix, "pub(crate)"):
		return model.VisPublicCrate
	case strings.HasPrefix(pubPrefix, "pub"):
		return model.VisPublic
	default:
		return model.VisPrivate
	}
}

func rustEnumVariants(body []string) []string {
	var variants []string
	for _, l := range body {
		t := strings.TrimSpace(l)
		if t == "" || strings.HasPrefix(t, "//") {
			continue
		}
		name := t
		if idx := strings.IndexAny(name, "({,"); idx >= 0 {
			name = name[:idx]
		}
		name = strings.TrimSpace(name)
		if name != "" {
			variants = append(variants, name)
		}
	}
	return variants
}

func parseRustParams(raw string) []model.Parameter {
	fields := splitParamList(raw)
	var params []model.Parameter
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "self" || f == "&self" || f == "&mut self" {
			params = append(params, model.Parameter{Name: f})
			continue
		}
		parts := strings.SplitN(f, ":", 2)
		if len(parts) == 2 {
			params = append(params, model.Parameter{Name: strings.TrimSpace(parts[0]), Type: strings.TrimSpace(parts[1])})
		} else {
			params = append(params, model.Parameter{Name: f})
		}
	}
	return params
}
