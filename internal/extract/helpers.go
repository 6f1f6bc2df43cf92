package extract

import (
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// truncateSource enforces model.MaxSourceLines on a verbatim snippet (spec
// §3 universal contract).
func truncateSource(lines []string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	snippet := lines[start:end]
	if len(snippet) > model.MaxSourceLines {
		snippet = snippet[:model.MaxSourceLines]
	}
	return strings.Join(snippet, "\n")
}

// lastNonBlank walks upward from idx-1 returning the index of the nearest
// non-blank line, or -1 if none.
func lastNonBlank(lines []string, idx int) int {
	for i := idx - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}

// collectLineCommentDoc walks upward from idx-1 collecting a contiguous run
// of line comments (each starting with prefix), stopping at the first
// non-comment or blank line. Returned in source order. This is the shared
// "doc comment immediately precedes the item" contract every C-family,
// Rust, Go, and JS-family extractor relies on.
func collectLineCommentDoc(lines []string, idx int, prefix string) string {
	var collected []string
	i := idx - 1
	for i >= 0 {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			break
		}
		if !strings.HasPrefix(trimmed, prefix) {
			break
		}
		collected = append([]string{strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))}, collected...)
		i--
	}
	return strings.Join(collected, "\n")
}

// collectBlockCommentDoc walks upward from idx-1 looking for a single
// /* ... */ or """ ... """-style block comment terminating immediately
// above idx. Returns its inner text with the delimiters stripped, or "" if
// none is found immediately above.
func collectBlockCommentDoc(lines []string, idx int, open, close string) string {
	end := lastNonBlank(lines, idx)
	if end < 0 {
		return ""
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[end]), close) {
		return ""
	}
	start := end
	for start >= 0 {
		trimmed := strings.TrimSpace(lines[start])
		if strings.HasPrefix(trimmed, open) {
			break
		}
		start--
	}
	if start < 0 {
		return ""
	}
	block := strings.Join(lines[start:end+1], "\n")
	block = strings.TrimPrefix(strings.TrimSpace(block), open)
	block = strings.TrimSuffix(strings.TrimSpace(block), close)
	return strings.TrimSpace(block)
}

// splitParamList splits a raw "(a, b T, c *X)"-style parameter list on
// top-level commas only (commas nested inside <>, [], or () are not split
// points), then trims each field. This is the shared param-list splitter
// every bracketed-signature language uses.
func splitParamList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var fields []string
	depth := 0
	last := 0
	for i, r := range raw {
		switch r {
		case '(', '[', '<', '{':
			depth++
		case ')', ']', '>', '}':
			depth--
		case ',':
			if depth == 0 {
				fields = append(fields, strings.TrimSpace(raw[last:i]))
				last = i + 1
			}
		}
	}
	fields = append(fields, strings.TrimSpace(raw[last:]))
	var out []string
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// matchBraces returns the index (into lines) of the line containing the
// brace that closes the one opened on openLine, tracking depth across the
// whole line's brace characters rather than assuming one brace per line.
// Used by every brace-delimited language extractor to find an item's end.
func matchBraces(lines []string, openLine int) int {
	depth := 0
	seenOpen := false
	for i := openLine; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				depth++
				seenOpen = true
			case '}':
				depth--
			}
		}
		if seenOpen && depth <= 0 {
			return i
		}
	}
	return len(lines) - 1
}

// indentOf returns the number of leading space-equivalent columns on a
// line, expanding tabs to 4 columns, used by Python's indentation-block
// matcher.
func indentOf(line string) int {
	col := 0
	for _, r := range line {
		switch r {
		case ' ':
			col++
		case '\t':
			col += 4
		default:
			return col
		}
	}
	return col
}

// isBlank reports whether a line is empty once trimmed.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
