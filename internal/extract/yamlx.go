package extract

import (
	"fmt"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
	"gopkg.in/yaml.v3"
)

// YAMLExtractor walks a yaml.v3 *yaml.Node tree rather than decoding into
// interface{}, because Node is the only representation that preserves
// anchors, aliases, tags, block/flow style, and merge keys — every slot
// spec §4.1 asks the YAML extractor to report (yaml.v3 is the teacher's own
// config-parsing dependency, internal/common/config.go's sibling format).
// Mapping and sequence values recurse, so PropertyPath reaches every depth
// (spec §4.1's "hierarchical property paths (app.name, routes[0].path)").
type YAMLExtractor struct{}

func NewYAMLExtractor() *YAMLExtractor { return &YAMLExtractor{} }

func (e *YAMLExtractor) Language() string { return "yaml" }

func (e *YAMLExtractor) Extract(content string) ([]model.ParsedItem, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil
	}

	var items []model.ParsedItem
	walkYAMLMapping(root, "", &items)
	return items, nil
}

// walkYAMLMapping emits one item per key/value pair of mapNode, then
// recurses into mapping/sequence values, joining parentPath + key the same
// way walkJSONObject does.
func walkYAMLMapping(mapNode *yaml.Node, parentPath string, items *[]model.ParsedItem) {
	seen := make(map[string]bool)
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valNode := mapNode.Content[i+1]
		name := keyNode.Value
		path := name
		if parentPath != "" {
			path = parentPath + "." + name
		}

		emitYAMLNode(name, path, keyNode, valNode, seen[name], items)
		seen[name] = true

		switch valNode.Kind {
		case yaml.MappingNode:
			walkYAMLMapping(valNode, path, items)
		case yaml.SequenceNode:
			walkYAMLSequence(valNode, path, items)
		}
	}
}

// walkYAMLSequence recurses into a sequence's mapping/sequence elements,
// indexing the path the way spec §4.1's "routes[0].path" example does.
// Plain scalar elements are already captured whole in the sequence item's
// Source and get no separate item, matching the JSON extractor's choice.
func walkYAMLSequence(seqNode *yaml.Node, path string, items *[]model.ParsedItem) {
	for i, elem := range seqNode.Content {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		switch elem.Kind {
		case yaml.MappingNode:
			walkYAMLMapping(elem, elemPath, items)
		case yaml.SequenceNode:
			walkYAMLSequence(elem, elemPath, items)
		}
	}
}

func emitYAMLNode(name, path string, keyNode, valNode *yaml.Node, duplicate bool, items *[]model.ParsedItem) {
	kind := model.KindProperty
	if valNode.Kind == yaml.MappingNode {
		kind = model.KindModule
	} else if valNode.Kind == yaml.SequenceNode {
		kind = model.KindField
	}

	var aliasTarget string
	if valNode.Kind == yaml.AliasNode && valNode.Alias != nil {
		aliasTarget = valNode.Alias.Value
	}

	style := "block"
	if valNode.Style&yaml.FlowStyle != 0 {
		style = "flow"
	}

	src, _ := yaml.Marshal(valNode)

	*items = append(*items, model.ParsedItem{
		Kind:       kind,
		Name:       name,
		Signature:  name + ":",
		Source:     truncateYAMLValue(string(src)),
		DocComment: strings.TrimSpace(keyNode.HeadComment),
		StartLine:  keyNode.Line,
		EndLine:    valNode.Line,
		Visibility: model.VisPublic,
		Metadata: model.Metadata{
			PropertyPath:   path,
			Anchor:         valNode.Anchor,
			ResolvedTarget: aliasTarget,
			Tag:            valNode.Tag,
			Style:          style,
			IsMergeKey:     name == "<<",
			DuplicateKey:   duplicate,
		},
	})
}

func truncateYAMLValue(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > model.MaxSourceLines {
		lines = lines[:model.MaxSourceLines]
	}
	return strings.Join(lines, "\n")
}
