package statestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// structValidator is shared process-wide the same way the teacher's
// SignalAnalysisSchema validation does (internal/workers/processing,
// grounded on a single package-level validator.New()): tag-driven struct
// validation is stateless and safe to share across every Repo[T].
var structValidator = validator.New()

// Entry is the per-kind projection Repo needs out of a concrete entity
// struct to populate the generic entities row's discriminator columns.
// Every model entity type (Session, Finding, Hypothesis, ...) satisfies
// this by exposing its embedded EntityBase plus a SearchText() method.
type Entry interface {
	EntityID() string
	EntityOrgID() *string
	EntitySessionID() *string
	EntityStatus() string
	SearchText() string
}

// Repo is a typed CRUD/search/tag/link facade over EntityStore for one
// EntityKind. One Repo[T] replaces what would otherwise be one
// hand-written, nearly-identical repo struct per entity kind (SessionRepo,
// FindingRepo, ...) — the single kind-discriminated table in
// migrateV1Entities already makes every entity kind structurally identical
// at the storage layer, so the Go-level repo follows that shape too, via
// generics.
type Repo[T Entry] struct {
	store *EntityStore
	kind  model.EntityKind
}

func NewRepo[T Entry](store *EntityStore, kind model.EntityKind) *Repo[T] {
	return &Repo[T]{store: store, kind: kind}
}

func (r *Repo[T]) Create(ctx context.Context, entity T) error {
	if err := structValidator.Struct(entity); err != nil {
		return zerrors.Wrap(zerrors.ConstraintViolation, err, "validating %s", r.kind)
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return zerrors.Wrap(zerrors.Serialization, err, "marshaling %s", r.kind)
	}
	now := time.Now()
	return r.store.Create(ctx, Record{
		ID:         entity.EntityID(),
		Kind:       r.kind,
		OrgID:      entity.EntityOrgID(),
		SessionID:  entity.EntitySessionID(),
		Status:     entity.EntityStatus(),
		SearchText: entity.SearchText(),
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (r *Repo[T]) Get(ctx context.Context, id string, identity model.Identity) (T, error) {
	var zero T
	rec, err := r.store.Get(ctx, id, identity)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(rec.Data, &out); err != nil {
		return zero, zerrors.Wrap(zerrors.Serialization, err, "unmarshaling %s %s", r.kind, id)
	}
	return out, nil
}

// Update re-serializes entity and bumps UpdatedAt. Callers that are
// changing a status-bearing entity must validate the transition via
// model.Transitionable before calling Update — Repo does not assume its
// T implements Transitionable, since several entities (Insight, ImplLog,
// CompatCheck) are immutable/append-only with no lifecycle at all.
func (r *Repo[T]) Update(ctx context.Context, entity T) error {
	if err := structValidator.Struct(entity); err != nil {
		return zerrors.Wrap(zerrors.ConstraintViolation, err, "validating %s", r.kind)
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return zerrors.Wrap(zerrors.Serialization, err, "marshaling %s", r.kind)
	}
	return r.store.Update(ctx, Record{
		ID:         entity.EntityID(),
		Status:     entity.EntityStatus(),
		SearchText: entity.SearchText(),
		Data:       data,
		UpdatedAt:  time.Now(),
	})
}

func (r *Repo[T]) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func (r *Repo[T]) List(ctx context.Context, identity model.Identity) ([]T, error) {
	recs, err := r.store.List(ctx, r.kind, identity)
	if err != nil {
		return nil, err
	}
	return unmarshalAll[T](recs, r.kind)
}

func (r *Repo[T]) Search(ctx context.Context, query string, identity model.Identity, limit int) ([]T, error) {
	recs, err := r.store.Search(ctx, query, r.kind, identity, limit)
	if err != nil {
		return nil, err
	}
	return unmarshalAll[T](recs, r.kind)
}

func (r *Repo[T]) Tag(ctx context.Context, id, tag string) error   { return r.store.Tag(ctx, id, tag) }
func (r *Repo[T]) Untag(ctx context.Context, id, tag string) error { return r.store.Untag(ctx, id, tag) }
func (r *Repo[T]) Tags(ctx context.Context, id string) ([]string, error) {
	return r.store.Tags(ctx, id)
}

func unmarshalAll[T Entry](recs []Record, kind model.EntityKind) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			return nil, zerrors.Wrap(zerrors.Serialization, err, "unmarshaling %s", kind)
		}
		out = append(out, v)
	}
	return out, nil
}

// NewEntityIDFor is a convenience matching common.NewEntityID, kept here
// so callers constructing a new Session/Finding/... don't need to import
// common directly just for id generation.
func NewEntityIDFor(kind model.EntityKind) string {
	return common.NewEntityID(string(kind))
}
