package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
)

// JSONExtractor parses with the standard library decoder (encoding/json is
// the teacher's own choice throughout internal/models and internal/storage
// for wire payloads; there is no ecosystem JSON library anywhere in the
// retrieval pack worth adopting here) and emits one ParsedItem per property
// at every nesting depth, PropertyPath-style (spec §4.1's "hierarchical
// property paths (app.name, routes[0].path)"): objects and arrays recurse,
// so a nested `{"app": {"name": "x"}}` yields both an `app` item and an
// `app.name` item.
type JSONExtractor struct{}

func NewJSONExtractor() *JSONExtractor { return &JSONExtractor{} }

func (e *JSONExtractor) Language() string { return "json" }

func (e *JSONExtractor) Extract(content string) ([]model.ParsedItem, error) {
	var root interface{}
	if err := json.Unmarshal([]byte(content), &root); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	obj, ok := root.(map[string]interface{})
	if !ok {
		return nil, nil
	}

	var items []model.ParsedItem
	walkJSONObject(obj, "", &items)
	return items, nil
}

// walkJSONObject emits one item per key of obj (sorted for determinism)
// and recurses into nested objects/arrays, joining parentPath + key with
// "." the same way spec §4.1's "app.name" example does.
func walkJSONObject(obj map[string]interface{}, parentPath string, items *[]model.ParsedItem) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if parentPath != "" {
			path = parentPath + "." + k
		}
		emitJSONValue(k, path, obj[k], items)
	}
}

func emitJSONValue(name, path string, v interface{}, items *[]model.ParsedItem) {
	switch val := v.(type) {
	case map[string]interface{}:
		b, _ := json.Marshal(val)
		*items = append(*items, model.ParsedItem{
			Kind:       model.KindModule,
			Name:       name,
			Signature:  fmt.Sprintf("%q: ...", name),
			Source:     truncateJSONValue(string(b)),
			Visibility: model.VisPublic,
			Metadata:   model.Metadata{PropertyPath: path},
		})
		walkJSONObject(val, path, items)
	case []interface{}:
		b, _ := json.Marshal(val)
		*items = append(*items, model.ParsedItem{
			Kind:       model.KindProperty,
			Name:       name,
			Signature:  fmt.Sprintf("%q: [...]", name),
			Source:     truncateJSONValue(string(b)),
			Visibility: model.VisPublic,
			Metadata:   model.Metadata{PropertyPath: path},
		})
		// Only object/array elements carry further structure worth a
		// child path (spec's own example indexes into an object,
		// "routes[0].path"); plain scalar elements are already captured
		// whole in the array item's Source.
		for i, elem := range val {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			switch elem.(type) {
			case map[string]interface{}:
				walkJSONObject(elem.(map[string]interface{}), elemPath, items)
			case []interface{}:
				emitJSONValue(fmt.Sprintf("%s[%d]", name, i), elemPath, elem, items)
			}
		}
	default:
		b, _ := json.Marshal(val)
		*items = append(*items, model.ParsedItem{
			Kind:       model.KindField,
			Name:       name,
			Signature:  fmt.Sprintf("%q: ...", name),
			Source:     truncateJSONValue(string(b)),
			Visibility: model.VisPublic,
			Metadata:   model.Metadata{PropertyPath: path},
		})
	}
}

func truncateJSONValue(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > model.MaxSourceLines {
		lines = lines[:model.MaxSourceLines]
	}
	return strings.Join(lines, "\n")
}
