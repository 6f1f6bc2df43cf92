// Package model defines Zenith's core data types: the extractor's universal
// ParsedItem output, its persisted row forms, the relational Entity family,
// the audit/trail envelopes, and the identity/visibility primitives that
// every other package builds on.
package model

// Kind is the closed set of symbol kinds a ParsedItem can carry (spec §3).
type Kind string

const (
	KindFunction    Kind = "function"
	KindMethod      Kind = "method"
	KindConstructor Kind = "constructor"
	KindClass       Kind = "class"
	KindStruct      Kind = "struct"
	KindEnum        Kind = "enum"
	KindInterface   Kind = "interface"
	KindTrait       Kind = "trait"
	KindTypeAlias   Kind = "type-alias"
	KindConst       Kind = "const"
	KindStatic      Kind = "static"
	KindField       Kind = "field"
	KindProperty    Kind = "property"
	KindModule      Kind = "module"
	KindMacro       Kind = "macro"
	KindComponent   Kind = "component"
	KindEvent       Kind = "event"
	KindIndexer     Kind = "indexer"
)

// Visibility is a symbol's source-level visibility (distinct from the
// Public/Team/Private catalog Visibility in visibility.go).
type Visibility string

const (
	VisPublic      Visibility = "public"
	VisPublicCrate Visibility = "public-crate"
	VisProtected   Visibility = "protected"
	VisPrivate     Visibility = "private"
	VisExport      Visibility = "export"
)

// MaxSourceLines truncates ParsedItem.Source; an extractor never emits a
// longer verbatim snippet.
const MaxSourceLines = 200

// ParsedItem is the universal extractor output (spec §3). Every language
// extractor in internal/extract produces a []ParsedItem in source order.
type ParsedItem struct {
	Kind        Kind       `json:"kind"`
	Name        string     `json:"name"`
	Signature   string     `json:"signature"`
	Source      string     `json:"source,omitempty"`
	DocComment  string     `json:"doc_comment,omitempty"`
	StartLine   int        `json:"start_line"`
	EndLine     int        `json:"end_line"`
	Visibility  Visibility `json:"visibility"`
	Metadata    Metadata   `json:"metadata"`
}

// Metadata is the open bag of language-specific slots described in spec §3.
// Per the REDESIGN FLAGS note, this is modeled as a single flat struct with
// unused slots left empty rather than a reflection-driven extension map:
// the slot names are a closed set and every extractor only ever touches the
// handful relevant to its language.
type Metadata struct {
	// Ownership (universal contract #2): every member-like item nested in a
	// container carries these two fields.
	OwnerName string `json:"owner_name,omitempty"`
	OwnerKind Kind   `json:"owner_kind,omitempty"`
	IsStaticMember bool `json:"is_static_member,omitempty"`

	// Common shape slots
	Parameters []Parameter `json:"parameters,omitempty"`
	ReturnType string      `json:"return_type,omitempty"`
	Generics   []string    `json:"generics,omitempty"`
	BaseClasses []string   `json:"base_classes,omitempty"`
	Decorators  []string   `json:"decorators,omitempty"`
	Attributes  []string   `json:"attributes,omitempty"`

	// Container summaries (emitted on the container item itself)
	Methods []string `json:"methods,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Variants []string `json:"variants,omitempty"`

	// Rust
	TraitName string `json:"trait_name,omitempty"`
	ForType   string `json:"for_type,omitempty"`
	IsAsync   bool   `json:"is_async,omitempty"`
	IsUnsafe  bool   `json:"is_unsafe,omitempty"`
	Lifetimes []string `json:"lifetimes,omitempty"`
	WhereClause string `json:"where_clause,omitempty"`

	// Error/result modeling (Rust, Elixir, Python exceptions)
	IsErrorType   bool `json:"is_error_type,omitempty"`
	ReturnsResult bool `json:"returns_result,omitempty"`

	// Python
	IsDataclass bool `json:"is_dataclass,omitempty"`
	IsProtocol  bool `json:"is_protocol,omitempty"`
	IsEnum      bool `json:"is_enum,omitempty"`

	// TSX / React
	HooksUsed   []string `json:"hooks_used,omitempty"`
	JSXElements []string `json:"jsx_elements,omitempty"`
	PropsType   string   `json:"props_type,omitempty"`
	Directive   string   `json:"directive,omitempty"` // "use client" | "use server"

	// HTML
	TagName    string            `json:"tag_name,omitempty"`
	TagAttrs   map[string]string `json:"tag_attrs,omitempty"`

	// YAML
	Anchor       string   `json:"anchor,omitempty"`
	Aliases      []string `json:"aliases,omitempty"`
	ResolvedTarget string `json:"resolved_target,omitempty"`
	Tag          string   `json:"tag,omitempty"`
	Style        string   `json:"style,omitempty"` // block | flow
	IsMergeKey   bool     `json:"is_merge_key,omitempty"`
	DuplicateKey bool     `json:"duplicate_key,omitempty"`

	// CSS
	Selector   string   `json:"selector,omitempty"`
	Properties []string `json:"properties,omitempty"`

	// Generic path-hierarchy formats (JSON/YAML/TOML)
	PropertyPath string `json:"property_path,omitempty"`

	// C/C++ preprocessor and templates
	RequiresConstraint string `json:"requires_constraint,omitempty"`

	// Svelte
	Directives map[string]string `json:"directives,omitempty"`
}

// Parameter describes one function/method parameter (including receiver
// forms like Rust's self/&self/&mut self, preserved verbatim in Name).
type Parameter struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Default string `json:"default,omitempty"`
}
