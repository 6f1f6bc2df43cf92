// Package service composes the state store, lake, trail writer, and
// identity into the single Service handle spec §3 describes: "a Service
// handle owns the database connection, trail writer, and (immutable)
// identity." Every mutation flows through CreateEntity, UpdateEntity,
// DeleteEntity, Transition or the Tag/Untag/Link/Unlink methods, each of
// which performs the three-write path spec §4.4/§4.5 require: entity row,
// audit entry, trail append. Grounded in the teacher's handler-composition style
// (internal/handlers/api.go wires one struct from many storage/service
// dependencies) adapted onto Zenith's narrower store set.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/zenith-dev/zenith/internal/audit"
	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/statestore"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// Service is the per-session handle every CLI command operates through.
// It is not safe to share across goroutines except via its trail Writer,
// which is internally locked (spec §5).
type Service struct {
	Store    *statestore.Store
	Trail    audit.Writer
	Identity model.Identity
	logger   arbor.ILogger
}

func New(store *statestore.Store, trail audit.Writer, identity model.Identity, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	if trail == nil {
		trail = audit.NoopWriter{}
	}
	return &Service{Store: store, Trail: trail, Identity: identity, logger: logger}
}

// MutationOp names the TrailOperation.Op values a Service mutation writes
// (spec §3 TrailOperation variants).
const (
	OpCreate     = "Create"
	OpUpdate     = "Update"
	OpDelete     = "Delete"
	OpTransition = "Transition"
	OpLink       = "Link"
	OpUnlink     = "Unlink"
)

// recordAudit appends an audit_log row and a trail line for one mutation.
// Per spec §4.5 and §7, these happen *after* the entity mutation and a
// failure here does not roll it back — the trail is advisory, and the
// relational store remains the source of truth. Errors are logged, not
// returned, for exactly that reason.
func (s *Service) recordAudit(ctx context.Context, kind model.EntityKind, id string, action model.AuditAction, op string, data map[string]interface{}) {
	var sessionID, orgID *string
	if s.Identity.IsAuthenticated() {
		orgIDVal := s.Identity.OrgID
		if orgIDVal != "" {
			orgID = &orgIDVal
		}
	}

	entry := model.AuditEntry{
		SessionID:  sessionID,
		OrgID:      orgID,
		EntityKind: kind,
		EntityID:   id,
		Action:     action,
		CreatedAt:  time.Now().UTC(),
	}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			entry.Detail = string(b)
		}
	}
	if err := s.Store.Audit.Append(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("entity", string(kind)).Str("id", id).Msg("audit append failed; entity mutation stands")
	}

	trailOp := model.TrailOperation{
		Op:     op,
		Entity: kind,
		ID:     id,
		Data:   data,
	}
	if err := s.Trail.Append(trailOp); err != nil {
		s.logger.Warn().Err(err).Str("entity", string(kind)).Str("id", id).Msg("trail append failed; entity mutation stands")
	}
}

// CreateEntity creates entity via repo, then writes the audit/trail pair.
// T must already have its EntityBase populated (ID, OrgID, SessionID) —
// callers assemble the concrete struct before calling this, since the
// generic Repo[T] has no knowledge of per-entity-kind defaults.
func CreateEntity[T statestore.Entry](ctx context.Context, s *Service, repo *statestore.Repo[T], kind model.EntityKind, entity T) error {
	if err := repo.Create(ctx, entity); err != nil {
		return err
	}
	// The trail line carries the full entity body, not just its id: this
	// is what makes Rebuild/Replay (spec §4.5's recovery mechanism) able
	// to recreate the entity set from trail files alone.
	s.recordAudit(ctx, kind, entity.EntityID(), model.AuditCreated, OpCreate, entityData(entity))
	return nil
}

// UpdateEntity updates entity, then records the audit/trail pair. Callers
// changing a status-bearing entity must have already validated the
// transition via model.Transitionable (Repo.Update does not check it).
func UpdateEntity[T statestore.Entry](ctx context.Context, s *Service, repo *statestore.Repo[T], kind model.EntityKind, entity T, action model.AuditAction) error {
	if err := repo.Update(ctx, entity); err != nil {
		return err
	}
	op := OpUpdate
	if action == model.AuditStatusChanged {
		op = OpTransition
	}
	s.recordAudit(ctx, kind, entity.EntityID(), action, op, entityData(entity))
	return nil
}

// entityData marshals entity to the map[string]interface{} shape
// TrailOperation.Data needs, so a later Rebuild/Replay pass can unmarshal
// it straight back into the concrete entity type.
func entityData(entity interface{}) map[string]interface{} {
	b, err := json.Marshal(entity)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

// DeleteEntity deletes an entity through repo, then records the
// audit/trail pair. Audit history itself is never deleted (spec §1's
// non-goals), but entities (findings, tasks, ...) are deletable per spec
// §4.4's verb list.
func DeleteEntity[T statestore.Entry](ctx context.Context, s *Service, repo *statestore.Repo[T], kind model.EntityKind, id string) error {
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, kind, id, model.AuditDeleted, OpDelete, nil)
	return nil
}

// Tag and Untag record the audit/trail pair around EntityStore's
// tag/untag verbs (spec §4.4, §4.5 AuditTagged/AuditUntagged).
func (s *Service) Tag(ctx context.Context, kind model.EntityKind, entityID, tag string) error {
	if err := s.Store.Entities.Tag(ctx, entityID, tag); err != nil {
		return err
	}
	s.recordAudit(ctx, kind, entityID, model.AuditTagged, "Tag", map[string]interface{}{"tag": tag})
	return nil
}

func (s *Service) Untag(ctx context.Context, kind model.EntityKind, entityID, tag string) error {
	if err := s.Store.Entities.Untag(ctx, entityID, tag); err != nil {
		return err
	}
	s.recordAudit(ctx, kind, entityID, model.AuditUntagged, "Untag", map[string]interface{}{"tag": tag})
	return nil
}

// Link and Unlink record the audit/trail pair around EntityStore's
// link/unlink verbs, audited against the source entity (spec §4.4, §4.5).
func (s *Service) Link(ctx context.Context, link model.EntityLink) (string, error) {
	id, err := s.Store.Entities.Link(ctx, link)
	if err != nil {
		return "", err
	}
	s.recordAudit(ctx, link.FromKind, link.FromID, model.AuditLinked, OpLink, map[string]interface{}{
		"link_id": id, "to_kind": string(link.ToKind), "to_id": link.ToID, "relation": string(link.Relation),
	})
	return id, nil
}

func (s *Service) Unlink(ctx context.Context, fromKind model.EntityKind, fromID, linkID string) error {
	if err := s.Store.Entities.Unlink(ctx, linkID); err != nil {
		return err
	}
	s.recordAudit(ctx, fromKind, fromID, model.AuditUnlinked, OpUnlink, map[string]interface{}{"link_id": linkID})
	return nil
}

// Transition validates entity's current status against next before
// updating, returning InvalidState if the move is disallowed (spec §3,
// §8.2). Callers pass a closure that applies the new status onto entity
// since T is a pointer to a concrete struct this package doesn't know the
// shape of beyond the Transitionable/Entry interfaces.
func Transition[T interface {
	statestore.Entry
	model.Transitionable
}](ctx context.Context, s *Service, repo *statestore.Repo[T], kind model.EntityKind, entity T, next string, apply func()) error {
	if !entity.CanTransitionTo(next) {
		return zerrors.New(zerrors.InvalidState, "%s %s cannot transition from %s to %s", kind, entity.EntityID(), entity.CurrentStatus(), next)
	}
	apply()
	return UpdateEntity(ctx, s, repo, kind, entity, model.AuditStatusChanged)
}
