package statestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/model"
)

func strPtr(s string) *string { return &s }

func TestAuditStoreAppendAndQueryByEntity(t *testing.T) {
	db := setupTestDB(t)
	store := NewAuditStore(db)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityTask,
		EntityID:   "tsk-1",
		Action:     model.AuditCreated,
		Detail:     "created task",
	}))
	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityTask,
		EntityID:   "tsk-1",
		Action:     model.AuditStatusChanged,
		Detail:     "moved to in_progress",
	}))
	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityIssue,
		EntityID:   "iss-1",
		Action:     model.AuditCreated,
	}))

	entries, err := store.QueryAudit(ctx, AuditFilter{EntityID: "tsk-1"}, model.Anonymous)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, model.AuditStatusChanged, entries[0].Action)
	assert.Equal(t, model.AuditCreated, entries[1].Action)

	entries, err = store.QueryAudit(ctx, AuditFilter{EntityKind: model.EntityIssue}, model.Anonymous)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "iss-1", entries[0].EntityID)
}

func TestAuditStoreQueryFiltersByActionAndTimeRange(t *testing.T) {
	db := setupTestDB(t)
	store := NewAuditStore(db)
	ctx := context.Background()

	past := time.Now().Add(-48 * time.Hour).UTC()
	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityTask, EntityID: "tsk-1", Action: model.AuditCreated, CreatedAt: past,
	}))
	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityTask, EntityID: "tsk-1", Action: model.AuditDeleted,
	}))

	entries, err := store.QueryAudit(ctx, AuditFilter{Action: model.AuditDeleted}, model.Anonymous)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditDeleted, entries[0].Action)

	entries, err = store.QueryAudit(ctx, AuditFilter{Since: time.Now().Add(-1 * time.Hour)}, model.Anonymous)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditDeleted, entries[0].Action)
}

func TestAuditStoreQueryRespectsOrgVisibility(t *testing.T) {
	db := setupTestDB(t)
	store := NewAuditStore(db)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityTask, EntityID: "tsk-1", Action: model.AuditCreated,
	}))
	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityTask, EntityID: "tsk-2", Action: model.AuditCreated, OrgID: strPtr("org-a"),
	}))
	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityTask, EntityID: "tsk-3", Action: model.AuditCreated, OrgID: strPtr("org-b"),
	}))

	entries, err := store.QueryAudit(ctx, AuditFilter{}, model.Identity{Subject: "u1", OrgID: "org-a"})
	require.NoError(t, err)
	require.Len(t, entries, 2) // org-less row + org-a row, not org-b

	entries, err = store.QueryAudit(ctx, AuditFilter{}, model.Identity{Subject: "admin", IsAdmin: true})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = store.QueryAudit(ctx, AuditFilter{}, model.Anonymous)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAuditStoreSearchMatchesDetailText(t *testing.T) {
	db := setupTestDB(t)
	store := NewAuditStore(db)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityFinding, EntityID: "fnd-1", Action: model.AuditCreated,
		Detail: "discovered a race condition in the scheduler",
	}))
	require.NoError(t, store.Append(ctx, model.AuditEntry{
		EntityKind: model.EntityFinding, EntityID: "fnd-2", Action: model.AuditCreated,
		Detail: "unrelated note about documentation",
	}))

	entries, err := store.SearchAudit(ctx, "scheduler", model.Anonymous, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fnd-1", entries[0].EntityID)
}

func TestAuditStoreAppendGeneratesIDAndTimestamp(t *testing.T) {
	db := setupTestDB(t)
	store := NewAuditStore(db)
	ctx := context.Background()

	entry := model.AuditEntry{EntityKind: model.EntityTask, EntityID: "tsk-1", Action: model.AuditCreated}
	require.NoError(t, store.Append(ctx, entry))

	entries, err := store.QueryAudit(ctx, AuditFilter{}, model.Anonymous)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.WithinDuration(t, time.Now().UTC(), entries[0].CreatedAt, 5*time.Second)
}
