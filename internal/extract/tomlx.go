package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/zenith-dev/zenith/internal/model"
)

// TOMLExtractor decodes with go-toml/v2, the same library the teacher uses
// for internal/common/config.go, into a generic map and re-serializes each
// table/key to recover a verbatim snippet (go-toml/v2 has no
// position-preserving node tree the way yaml.v3 does). Tables and arrays
// recurse to build hierarchical PropertyPaths (spec §4.1's "app.name,
// routes[0].path" example), and recognized Cargo/Poetry/PEP 508 dependency
// tables additionally emit one synthetic ownership-path item per dependency
// (spec §4.1 TOML: "recognizes Cargo/Poetry/PEP 508 dependency tables and
// emits a synthetic ownership path per ecosystem").
type TOMLExtractor struct{}

func NewTOMLExtractor() *TOMLExtractor { return &TOMLExtractor{} }

func (e *TOMLExtractor) Language() string { return "toml" }

func (e *TOMLExtractor) Extract(content string) ([]model.ParsedItem, error) {
	var root map[string]interface{}
	if err := toml.Unmarshal([]byte(content), &root); err != nil {
		return nil, fmt.Errorf("invalid toml: %w", err)
	}

	var items []model.ParsedItem
	walkTOMLTable(root, "", &items)
	return items, nil
}

// walkTOMLTable emits one item per key of table (sorted for determinism),
// recurses into nested tables/arrays, and, for a recognized dependency
// table path, emits the synthetic per-dependency ownership items alongside.
func walkTOMLTable(table map[string]interface{}, parentPath string, items *[]model.ParsedItem) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := table[k]
		path := k
		if parentPath != "" {
			path = parentPath + "." + k
		}
		emitTOMLValue(k, path, v, items)
		emitDependencyOwnership(path, v, items)
	}
}

func emitTOMLValue(name, path string, v interface{}, items *[]model.ParsedItem) {
	kind := model.KindProperty
	if _, ok := v.(map[string]interface{}); ok {
		kind = model.KindModule
	}
	b, _ := toml.Marshal(map[string]interface{}{name: v})
	*items = append(*items, model.ParsedItem{
		Kind:       kind,
		Name:       name,
		Signature:  "[" + path + "]",
		Source:     truncateTOMLValue(string(b)),
		Visibility: model.VisPublic,
		Metadata:   model.Metadata{PropertyPath: path},
	})

	switch val := v.(type) {
	case map[string]interface{}:
		walkTOMLTable(val, path, items)
	case []interface{}:
		for i, elem := range val {
			if m, ok := elem.(map[string]interface{}); ok {
				walkTOMLTable(m, fmt.Sprintf("%s[%d]", path, i), items)
			}
		}
	}
}

// cargoDependencyTables and poetryDependencyTableSuffix identify the
// table shapes Cargo.toml and pyproject.toml's [tool.poetry.*] sections use
// for dependency declarations; pep508DependencyPath is pyproject.toml's
// standard [project] table, a flat array of PEP 508 requirement strings
// rather than a name-keyed table.
var cargoDependencyTables = map[string]bool{
	"dependencies":       true,
	"dev-dependencies":   true,
	"build-dependencies": true,
}

const pep508DependencyPath = "project.dependencies"

var pep508NameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+`)

func isPoetryDependencyTable(path string) bool {
	return strings.HasPrefix(path, "tool.poetry.") && strings.HasSuffix(path, "dependencies")
}

// emitDependencyOwnership recognizes a Cargo/Poetry/PEP 508 dependency
// table at path and emits one synthetic ownership-path item per dependency
// it declares, distinct from the table/array item emitTOMLValue already
// produced for path itself.
func emitDependencyOwnership(path string, v interface{}, items *[]model.ParsedItem) {
	switch {
	case cargoDependencyTables[path]:
		emitNamedDependencies("cargo", path, v, items)
	case isPoetryDependencyTable(path):
		emitNamedDependencies("poetry", path, v, items)
	case path == pep508DependencyPath:
		list, ok := v.([]interface{})
		if !ok {
			return
		}
		for i, elem := range list {
			req, ok := elem.(string)
			if !ok {
				continue
			}
			name := pep508NameRe.FindString(strings.TrimSpace(req))
			if name == "" {
				continue
			}
			*items = append(*items, model.ParsedItem{
				Kind:       model.KindConst,
				Name:       name,
				Signature:  req,
				Visibility: model.VisPublic,
				Metadata:   model.Metadata{PropertyPath: fmt.Sprintf("pep508:%s[%d]", path, i)},
			})
		}
	}
}

func emitNamedDependencies(ecosystem, path string, v interface{}, items *[]model.ParsedItem) {
	table, ok := v.(map[string]interface{})
	if !ok {
		return
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		*items = append(*items, model.ParsedItem{
			Kind:       model.KindConst,
			Name:       name,
			Signature:  name,
			Visibility: model.VisPublic,
			Metadata:   model.Metadata{PropertyPath: fmt.Sprintf("%s:%s.%s", ecosystem, path, name)},
		})
	}
}

func truncateTOMLValue(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > model.MaxSourceLines {
		lines = lines[:model.MaxSourceLines]
	}
	return strings.Join(lines, "\n")
}
