package model

// LinkRelation is the closed set of relations an EntityLink can carry (spec
// §3). Links are directional: From relates to To by Relation.
type LinkRelation string

const (
	RelationRelatesTo  LinkRelation = "relates_to"
	RelationBlocks     LinkRelation = "blocks"
	RelationBlockedBy  LinkRelation = "blocked_by"
	RelationDuplicates LinkRelation = "duplicates"
	RelationDerivedFrom LinkRelation = "derived_from"
	RelationAnswers    LinkRelation = "answers"
	RelationPartOf     LinkRelation = "part_of"
)

// EntityLink is a directed edge between any two entities identified by their
// (kind, id) pair, never by a typed foreign key, so that the same table
// spans all thirteen entity kinds (spec §3, §4.6 catalog/graph analytics).
type EntityLink struct {
	EntityBase
	FromKind EntityKind   `json:"from_kind" validate:"required"`
	FromID   string       `json:"from_id" validate:"required"`
	ToKind   EntityKind   `json:"to_kind" validate:"required"`
	ToID     string       `json:"to_id" validate:"required"`
	Relation LinkRelation `json:"relation" validate:"required"`
}
