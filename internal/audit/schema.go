package audit

import (
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// SchemaRegistry validates a TrailOperation before it's written. No JSON
// schema validation library exists anywhere in the retrieval pack — the
// one candidate, github.com/invopop/jsonschema, is a Go-struct-to-schema
// generator pulled in indirectly by mark3labs/mcp-go, not a validator —
// so this is a deliberately small, stdlib structural check rather than a
// real JSON-schema evaluator (see DESIGN.md).
type SchemaRegistry interface {
	Validate(op model.TrailOperation) error
}

// OperationSchema names the Data keys one "op" value must carry.
type OperationSchema struct {
	Op             string
	RequiredFields []string
}

// StaticRegistry is a fixed table of OperationSchemas keyed by Op.
// Operations with no registered schema pass validation unchecked —
// schemas evolve, and an unknown op is not itself a defect (spec §4.5).
type StaticRegistry struct {
	schemas map[string]OperationSchema
}

func NewStaticRegistry(schemas ...OperationSchema) *StaticRegistry {
	r := &StaticRegistry{schemas: make(map[string]OperationSchema, len(schemas))}
	for _, s := range schemas {
		r.schemas[s.Op] = s
	}
	return r
}

func (r *StaticRegistry) Validate(op model.TrailOperation) error {
	schema, ok := r.schemas[op.Op]
	if !ok {
		return nil
	}
	for _, field := range schema.RequiredFields {
		if _, ok := op.Data[field]; !ok {
			return zerrors.New(zerrors.Serialization, "trail op %q missing required field %q", op.Op, field)
		}
	}
	return nil
}

// DefaultRegistry covers the fixed op vocabulary TrailOperation.Op draws
// from (spec §4.5's envelope comment): transition, link and tag carry
// enough Data to replay ("to"; "to_id" and "relation"; "tag");
// create/update/delete-not-allowed don't require any particular key since
// the entity row itself is the source of truth.
func DefaultRegistry() *StaticRegistry {
	return NewStaticRegistry(
		OperationSchema{Op: "create"},
		OperationSchema{Op: "update"},
		OperationSchema{Op: "transition", RequiredFields: []string{"to"}},
		OperationSchema{Op: "link", RequiredFields: []string{"to_id", "relation"}},
		OperationSchema{Op: "tag", RequiredFields: []string{"tag"}},
		OperationSchema{Op: "delete-not-allowed"},
	)
}
