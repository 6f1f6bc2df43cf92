package extract

import (
	"regexp"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// ElixirExtractor scans defmodule/def/defp blocks, which close with `end`
// like Ruby but open with `do` on the same line, and tracks whether a
// function returns an {:ok, _} | {:error, _} tuple shape (spec §4.1 Elixir
// error-result modeling).
type ElixirExtractor struct {
	moduleRe *regexp.Regexp
	defRe    *regexp.Regexp
	opensDo  *regexp.Regexp
}

func NewElixirExtractor() *ElixirExtractor {
	return &ElixirExtractor{
		moduleRe: regexp.MustCompile(`^defmodule\s+([A-Za-z_][A-Za-z0-9_.]*)\s+do\s*$`),
		defRe:    regexp.MustCompile(`^(defp?|defmacro|defmacrop)\s+([A-Za-z_][A-Za-z0-9_?!]*)\s*(\(([^)]*)\))?\s*(do|,)\s*$`),
		opensDo:  regexp.MustCompile(`\b(do|fn)\b\s*(->)?\s*$`),
	}
}

func (e *ElixirExtractor) Language() string { return "elixir" }

func (e *ElixirExtractor) Extract(content string) ([]model.ParsedItem, error) {
	lines := strings.Split(content, "\n")
	var items []model.ParsedItem
	var owner string
	var ownerEnd = -1

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if ownerEnd >= 0 && i > ownerEnd {
			owner = ""
			ownerEnd = -1
		}

		if m := e.moduleRe.FindStringSubmatch(trimmed); m != nil {
			end := endKeywordBlockEnd(lines, i, e.opensDo)
			items = append(items, model.ParsedItem{
				Kind:       model.KindModule,
				Name:       m[1],
				Signature:  trimmed,
				Source:     truncateSource(lines, i, end+1),
				DocComment: elixirModuledoc(lines, i, end),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: model.VisPublic,
			})
			owner = m[1]
			ownerEnd = end
			continue
		}

		if m := e.defRe.FindStringSubmatch(trimmed); m != nil {
			end := endKeywordBlockEnd(lines, i, e.opensDo)
			kind := model.KindFunction
			if owner != "" {
				kind = model.KindMethod
			}
			body := truncateSource(lines, i, end+1)
			items = append(items, model.ParsedItem{
				Kind:       kind,
				Name:       m[2],
				Signature:  trimmed,
				Source:     body,
				DocComment: collectLineCommentDoc(lines, i, "#"),
				StartLine:  i + 1,
				EndLine:    end + 1,
				Visibility: elixirVisibility(m[1]),
				Metadata: model.Metadata{
					OwnerName:     owner,
					OwnerKind:     model.KindModule,
					Parameters:    parseTSParams(m[4]),
					ReturnsResult: strings.Contains(body, "{:ok,") || strings.Contains(body, "{:error,"),
				},
			})
		}
	}

	return items, nil
}

func elixirVisibility(defKind string) model.Visibility {
	if defKind == "defp" {
		return model.VisPrivate
	}
	return model.VisPublic
}

// elixirModuledoc collects a @moduledoc """ ... """ block immediately
// inside the module header, the Elixir convention for module-level docs.
func elixirModuledoc(lines []string, headerIdx, blockEnd int) string {
	for i := headerIdx + 1; i <= blockEnd && i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, `@moduledoc """`) && !strings.HasPrefix(t, `@moduledoc ~S"""`) {
			return ""
		}
		rest := t[strings.Index(t, `"""`)+3:]
		if end := strings.Index(rest, `"""`); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		var body []string
		for j := i + 1; j <= blockEnd && j < len(lines); j++ {
			if end := strings.Index(lines[j], `"""`); end >= 0 {
				body = append(body, lines[j][:end])
				return strings.TrimSpace(strings.Join(body, "\n"))
			}
			body = append(body, lines[j])
		}
		return strings.TrimSpace(strings.Join(body, "\n"))
	}
	return ""
}
