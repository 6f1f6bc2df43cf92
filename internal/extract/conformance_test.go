package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conformanceCase pairs one extractor with a snippet exercising its
// container+member shape, used to assert the universal contracts hold
// across every registered language (spec §4.1, §C supplement
// zen-parser/src/extractors/dispatcher/conformance.rs).
type conformanceCase struct {
	name      string
	extractor Extractor
	source    string
	wantOwner string // expected OwnerName on the nested member item
}

func conformanceCases() []conformanceCase {
	return []conformanceCase{
		{
			name:      "go",
			extractor: NewGoExtractor(),
			source: "package widget\n\n" +
				"// Widget is a thing.\n" +
				"type Widget struct {\n\tName string\n}\n\n" +
				"// NewWidget constructs a Widget.\nfunc NewWidget() *Widget {\n\treturn &Widget{}\n}\n\n" +
				"func (w *Widget) Render() string {\n\treturn w.Name\n}\n",
			wantOwner: "Widget",
		},
		{
			name:      "rust",
			extractor: NewRustExtractor(),
			source: "pub struct Widget {\n    name: String,\n}\n\n" +
				"impl Widget {\n" +
				"    pub fn new() -> Self {\n        Widget { name: String::new() }\n    }\n\n" +
				"    pub fn render(&self) -> String {\n        self.name.clone()\n    }\n" +
				"}\n",
			wantOwner: "Widget",
		},
		{
			name:      "python",
			extractor: NewPythonExtractor(),
			source: "class Widget:\n" +
				"    def __init__(self):\n        self.name = \"\"\n\n" +
				"    def render(self):\n        return self.name\n",
			wantOwner: "Widget",
		},
		{
			name:      "typescript",
			extractor: NewTypeScriptExtractor(),
			source: "export class Widget {\n" +
				"    constructor() {}\n\n" +
				"    render(): string {\n        return \"\";\n    }\n" +
				"}\n",
			wantOwner: "Widget",
		},
		{
			name:      "java",
			extractor: NewBraceExtractor(javaProfile),
			source: "public class Widget {\n" +
				"    public Widget() {}\n\n" +
				"    public String render() {\n        return \"\";\n    }\n" +
				"}\n",
			wantOwner: "Widget",
		},
		{
			name:      "csharp",
			extractor: NewBraceExtractor(csharpProfile),
			source: "public class Widget {\n" +
				"    public Widget() {}\n\n" +
				"    public string Render() {\n        return \"\";\n    }\n" +
				"}\n",
			wantOwner: "Widget",
		},
		{
			name:      "ruby",
			extractor: NewEndKeywordExtractor(rubyProfile),
			source: "class Widget\n" +
				"  def initialize\n    @name = \"\"\n  end\n\n" +
				"  def render\n    @name\n  end\n" +
				"end\n",
			wantOwner: "Widget",
		},
		{
			name:      "cpp",
			extractor: NewCppExtractor(),
			source: "class Widget {\n" +
				"public:\n" +
				"    Widget() {}\n" +
				"    std::string render() {\n        return name;\n    }\n" +
				"};\n",
			wantOwner: "Widget",
		},
	}
}

// TestConformanceContainerMemberOwnership asserts universal contract #2:
// every item nested inside a container is re-emitted flattened at the top
// level with OwnerName set, never dropped (the no-leak rule) and never
// left nested only inside the container's own metadata.
func TestConformanceContainerMemberOwnership(t *testing.T) {
	for _, c := range conformanceCases() {
		c := c
		t.Run(c.name, func(t *testing.T) {
			items, err := c.extractor.Extract(c.source)
			require.NoError(t, err)
			require.NotEmpty(t, items, "extractor must find at least the container")

			var sawContainer, sawMember bool
			for _, item := range items {
				if item.Name == c.wantOwner && item.Metadata.OwnerName == "" {
					sawContainer = true
				}
				if item.Metadata.OwnerName == c.wantOwner {
					sawMember = true
				}
			}
			assert.True(t, sawContainer, "container item itself must be present")
			assert.True(t, sawMember, "at least one member must carry OwnerName == container name")
		})
	}
}

// TestConformanceConstructorNormalization asserts universal contract #1:
// every language's constructor-equivalent (new/__init__/constructor/new())
// is tagged model.KindConstructor rather than left as a plain method/
// function.
func TestConformanceConstructorNormalization(t *testing.T) {
	for _, c := range conformanceCases() {
		c := c
		t.Run(c.name, func(t *testing.T) {
			items, err := c.extractor.Extract(c.source)
			require.NoError(t, err)

			var sawConstructor bool
			for _, item := range items {
				if item.Kind == "constructor" {
					sawConstructor = true
				}
			}
			assert.True(t, sawConstructor, "expected a constructor-kind item")
		})
	}
}

// TestConformanceSourceTruncation asserts the Go extractor caps a 402-line
// function's Source at model.MaxSourceLines (200) lines.
func TestConformanceSourceTruncation(t *testing.T) {
	var long strings.Builder
	long.WriteString("func Big() {\n")
	for i := 0; i < 400; i++ {
		long.WriteString("\tdoSomething()\n")
	}
	long.WriteString("}\n")

	items, err := NewGoExtractor().Extract(long.String())
	require.NoError(t, err)
	require.NotEmpty(t, items)

	for _, item := range items {
		lineCount := strings.Count(item.Source, "\n") + 1
		assert.LessOrEqual(t, lineCount, 200)
	}
}

func TestRegistryDispatchesByExtension(t *testing.T) {
	reg := NewRegistry(nil)

	e, ok := reg.ForPath("main.go")
	require.True(t, ok)
	assert.Equal(t, "go", e.Language())

	e, ok = reg.ForPath("service.rs")
	require.True(t, ok)
	assert.Equal(t, "rust", e.Language())

	_, ok = reg.ForPath("README")
	assert.False(t, ok)

	items := reg.Extract("unknown.xyz", "hello world")
	require.Len(t, items, 1)
	assert.Equal(t, "file", items[0].Name)
}
