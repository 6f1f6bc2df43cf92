package model

import "time"

// EntityKind is the closed set of relational entity types (spec §3). The
// three-letter value doubles as the ID prefix (spec §6, §8.1).
type EntityKind string

const (
	EntitySession             EntityKind = "ses"
	EntityResearchItem        EntityKind = "rsc"
	EntityFinding             EntityKind = "fnd"
	EntityHypothesis          EntityKind = "hyp"
	EntityInsight             EntityKind = "ins"
	EntityIssue               EntityKind = "iss"
	EntityTask                EntityKind = "tsk"
	EntityImplLog             EntityKind = "imp"
	EntityCompatCheck         EntityKind = "cpt"
	EntityStudy               EntityKind = "stu"
	EntityEntityLink          EntityKind = "lnk"
	EntityProjectMeta         EntityKind = "pmt"
	EntityProjectDependency   EntityKind = "pdp"
)

// EntityBase is embedded by every Entity struct: id, timestamps, optional
// session scope, and (post migration-003) org scope.
type EntityBase struct {
	ID        string    `json:"id"`
	SessionID *string   `json:"session_id,omitempty"`
	OrgID     *string   `json:"org_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID, EntityOrgID, and EntitySessionID satisfy statestore.Entry's
// discriminator accessors for every type embedding EntityBase, so only
// EntityStatus and SearchText need writing per concrete entity type.
func (b EntityBase) EntityID() string        { return b.ID }
func (b EntityBase) EntityOrgID() *string     { return b.OrgID }
func (b EntityBase) EntitySessionID() *string { return b.SessionID }

// Transitionable is implemented by every status-bearing entity lifecycle
// type so repositories can validate transitions uniformly (spec §3, §8.2).
type Transitionable interface {
	CanTransitionTo(next string) bool
	CurrentStatus() string
}
