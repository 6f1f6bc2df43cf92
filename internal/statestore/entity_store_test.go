package statestore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/model"
)

func newRecord(t *testing.T, kind model.EntityKind, id, status, searchText string, orgID *string) Record {
	t.Helper()
	data, err := json.Marshal(map[string]string{"id": id})
	require.NoError(t, err)
	now := time.Now()
	return Record{
		ID:         id,
		Kind:       kind,
		OrgID:      orgID,
		Status:     status,
		SearchText: searchText,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestEntityStoreCreateGetUpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	rec := newRecord(t, model.EntityTask, "tsk-00000001", "open", "fix the bug", nil)
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.Get(ctx, rec.ID, model.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "open", got.Status)

	rec.Status = "in_progress"
	rec.SearchText = "fix the bug now"
	rec.UpdatedAt = time.Now()
	require.NoError(t, store.Update(ctx, rec))

	got, err = store.Get(ctx, rec.ID, model.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", got.Status)
	assert.Equal(t, "fix the bug now", got.SearchText)

	require.NoError(t, store.Delete(ctx, rec.ID))
	_, err = store.Get(ctx, rec.ID, model.Anonymous)
	assert.Error(t, err)
}

func TestEntityStoreCreateDuplicateFails(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	rec := newRecord(t, model.EntityTask, "tsk-00000002", "open", "dup", nil)
	require.NoError(t, store.Create(ctx, rec))
	err := store.Create(ctx, rec)
	assert.Error(t, err)
}

func TestEntityStoreListOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	first := newRecord(t, model.EntityIssue, "iss-00000001", "open", "first", nil)
	first.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Create(ctx, first))

	second := newRecord(t, model.EntityIssue, "iss-00000002", "open", "second", nil)
	require.NoError(t, store.Create(ctx, second))

	recs, err := store.List(ctx, model.EntityIssue, model.Anonymous)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, second.ID, recs[0].ID)
	assert.Equal(t, first.ID, recs[1].ID)
}

func TestEntityStoreGetIsUnfilteredByOrg(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	orgA := "org-a"
	scoped := newRecord(t, model.EntityFinding, "fnd-00000002", "open", "scoped", &orgA)
	require.NoError(t, store.Create(ctx, scoped))

	// Get never applies org filtering: ids are opaque and server-generated,
	// so knowing one is itself the caller's authorization (spec §4.4).
	got, err := store.Get(ctx, scoped.ID, model.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, scoped.ID, got.ID)

	other := model.Identity{Subject: "u2", OrgID: "org-b"}
	got, err = store.Get(ctx, scoped.ID, other)
	require.NoError(t, err)
	assert.Equal(t, scoped.ID, got.ID)
}

func TestEntityStoreListFiltersByOrg(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	orgA := "org-a"
	global := newRecord(t, model.EntityFinding, "fnd-00000001", "open", "global", nil)
	require.NoError(t, store.Create(ctx, global))

	scoped := newRecord(t, model.EntityFinding, "fnd-00000002", "open", "scoped", &orgA)
	require.NoError(t, store.Create(ctx, scoped))

	// Anonymous identity sees only the global row.
	recs, err := store.List(ctx, model.EntityFinding, model.Anonymous)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, global.ID, recs[0].ID)

	// A caller from org-a sees both.
	caller := model.Identity{Subject: "u1", OrgID: "org-a"}
	recs, err = store.List(ctx, model.EntityFinding, caller)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	// A caller from a different org sees only the global row...
	other := model.Identity{Subject: "u2", OrgID: "org-b"}
	recs, err = store.List(ctx, model.EntityFinding, other)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	// ...but an admin sees everything regardless of org.
	admin := model.Identity{Subject: "u3", IsAdmin: true}
	recs, err = store.List(ctx, model.EntityFinding, admin)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestEntityStoreSearchMatchesAndScopesByKind(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	task := newRecord(t, model.EntityTask, "tsk-00000003", "open", "refactor the embedder retry loop", nil)
	require.NoError(t, store.Create(ctx, task))

	finding := newRecord(t, model.EntityFinding, "fnd-00000003", "open", "embedder retries forever on 429", nil)
	require.NoError(t, store.Create(ctx, finding))

	recs, err := store.Search(ctx, "embedder", "", model.Anonymous, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = store.Search(ctx, "embedder", model.EntityTask, model.Anonymous, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, task.ID, recs[0].ID)
}

func TestEntityStoreTagUntagIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	rec := newRecord(t, model.EntityTask, "tsk-00000004", "open", "tagme", nil)
	require.NoError(t, store.Create(ctx, rec))

	require.NoError(t, store.Tag(ctx, rec.ID, "urgent"))
	require.NoError(t, store.Tag(ctx, rec.ID, "urgent")) // idempotent

	tags, err := store.Tags(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent"}, tags)

	require.NoError(t, store.Untag(ctx, rec.ID, "urgent"))
	tags, err = store.Tags(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestEntityStoreLinkUnlinkAndTraversal(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	from := newRecord(t, model.EntityTask, "tsk-00000005", "open", "impl", nil)
	to := newRecord(t, model.EntityIssue, "iss-00000005", "open", "bug", nil)
	require.NoError(t, store.Create(ctx, from))
	require.NoError(t, store.Create(ctx, to))

	link := model.EntityLink{
		FromKind: model.EntityTask,
		FromID:   from.ID,
		ToKind:   model.EntityIssue,
		ToID:     to.ID,
		Relation: model.RelationRelatesTo,
	}
	id, err := store.Link(ctx, link)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// Linking the same pair again is idempotent (same deterministic id).
	id2, err := store.Link(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	links, err := store.LinksFrom(ctx, from.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, to.ID, links[0].ToID)

	all, err := store.AllLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, store.Unlink(ctx, id))
	links, err = store.LinksFrom(ctx, from.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestEntityStoreDeleteCascadesTagsAndLinks(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	from := newRecord(t, model.EntityTask, "tsk-00000006", "open", "impl", nil)
	to := newRecord(t, model.EntityIssue, "iss-00000006", "open", "bug", nil)
	require.NoError(t, store.Create(ctx, from))
	require.NoError(t, store.Create(ctx, to))
	require.NoError(t, store.Tag(ctx, from.ID, "keep"))
	_, err := store.Link(ctx, model.EntityLink{
		FromKind: model.EntityTask, FromID: from.ID,
		ToKind: model.EntityIssue, ToID: to.ID, Relation: model.RelationBlocks,
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, from.ID))

	tags, err := store.Tags(ctx, from.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	links, err := store.LinksFrom(ctx, from.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}
