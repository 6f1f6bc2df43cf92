package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/statestore"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// ReplayApplier implements audit.Applier directly against a state store's
// EntityStore, the recovery mechanism spec §4.5/§9 describe for
// trail/state divergence: replaying every session's trail file in (ts,
// ses) order must recreate the entity set. It writes straight to
// EntityStore rather than through the typed Repo[T]s, since a replayed
// TrailOperation only carries a generic entity-kind + JSON body, not a Go
// type.
type ReplayApplier struct {
	entities *statestore.EntityStore
}

func NewReplayApplier(entities *statestore.EntityStore) *ReplayApplier {
	return &ReplayApplier{entities: entities}
}

// Apply recreates or updates one entity row from its replayed operation.
// Link/Unlink/Tag/Untag operations carry their target in Data and are
// replayed against the same EntityStore verbs the live mutation path uses.
func (a *ReplayApplier) Apply(op model.TrailOperation) error {
	ctx := context.Background()

	switch op.Op {
	case OpCreate, OpUpdate, OpTransition:
		return a.applyUpsert(ctx, op)
	case OpLink:
		return a.applyLink(ctx, op)
	case OpUnlink:
		return a.applyUnlink(ctx, op)
	case "Tag":
		tag, _ := op.Data["tag"].(string)
		return a.entities.Tag(ctx, op.ID, tag)
	case "Untag":
		tag, _ := op.Data["tag"].(string)
		return a.entities.Untag(ctx, op.ID, tag)
	case OpDelete:
		return a.entities.Delete(ctx, op.ID)
	default:
		return zerrors.New(zerrors.Other, "unknown trail op %q for entity %s", op.Op, op.ID)
	}
}

func (a *ReplayApplier) applyUpsert(ctx context.Context, op model.TrailOperation) error {
	if op.Data == nil {
		return nil // tag/untag/link ops route through their own case arms
	}
	body, err := json.Marshal(op.Data)
	if err != nil {
		return zerrors.Wrap(zerrors.Serialization, err, "remarshaling replayed op data for %s", op.ID)
	}

	status, _ := op.Data["status"].(string)
	rec := statestore.Record{
		ID:         op.ID,
		Kind:       op.Entity,
		OrgID:      stringField(op.Data, "org_id"),
		SessionID:  stringField(op.Data, "session_id"),
		Status:     status,
		SearchText: "",
		Data:       body,
		UpdatedAt:  time.UnixMilli(op.TS).UTC(),
	}

	if op.Op == OpCreate {
		rec.CreatedAt = rec.UpdatedAt
		if err := a.entities.Create(ctx, rec); err != nil {
			if zerrors.KindOf(err) == zerrors.ConstraintViolation {
				return a.entities.Update(ctx, rec) // already replayed from a prior session's trail
			}
			return err
		}
		return nil
	}
	return a.entities.Update(ctx, rec)
}

// stringField reads a nullable string out of a replayed op's generic data
// map, returning nil rather than a pointer to "" when the key is absent —
// matching how EntityBase.OrgID/SessionID are omitempty in JSON.
func stringField(data map[string]interface{}, key string) *string {
	v, ok := data[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func (a *ReplayApplier) applyLink(ctx context.Context, op model.TrailOperation) error {
	toKind, _ := op.Data["to_kind"].(string)
	toID, _ := op.Data["to_id"].(string)
	relation, _ := op.Data["relation"].(string)
	_, err := a.entities.Link(ctx, model.EntityLink{
		FromKind: op.Entity,
		FromID:   op.ID,
		ToKind:   model.EntityKind(toKind),
		ToID:     toID,
		Relation: model.LinkRelation(relation),
	})
	return err
}

func (a *ReplayApplier) applyUnlink(ctx context.Context, op model.TrailOperation) error {
	linkID, _ := op.Data["link_id"].(string)
	return a.entities.Unlink(ctx, linkID)
}
