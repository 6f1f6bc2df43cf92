package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/audit"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/statestore"
)

func setupService(t *testing.T, identity model.Identity) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := statestore.Open(statestore.DefaultConfig(path), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	trailDir := t.TempDir()
	trail := audit.NewFileWriter(trailDir, "test-session", nil)
	return New(statestore.NewStore(db), trail, identity, nil)
}

func newTask(title string) *model.Task {
	now := time.Now().UTC()
	return &model.Task{
		EntityBase: model.EntityBase{ID: statestore.NewEntityIDFor(model.EntityTask), CreatedAt: now, UpdatedAt: now},
		Status:     model.TaskOpen,
		Title:      title,
	}
}

func TestCreateEntityWritesAuditEntry(t *testing.T) {
	svc := setupService(t, model.Anonymous)
	ctx := context.Background()

	task := newTask("index the rust extractor")
	require.NoError(t, CreateEntity(ctx, svc, svc.Store.Tasks, model.EntityTask, task))

	hits, err := svc.Store.Audit.QueryAudit(ctx, statestore.AuditFilter{EntityID: task.ID}, model.Anonymous)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, model.AuditCreated, hits[0].Action)
}

func TestTransitionRejectsDisallowedMove(t *testing.T) {
	svc := setupService(t, model.Anonymous)
	ctx := context.Background()

	task := newTask("ship the search engine")
	require.NoError(t, CreateEntity(ctx, svc, svc.Store.Tasks, model.EntityTask, task))

	err := Transition(ctx, svc, svc.Store.Tasks, model.EntityTask, task, string(model.TaskDone), func() { task.Status = model.TaskDone })
	require.Error(t, err, "Open -> Done is not a declared transition")
}

func TestTransitionAppliesAllowedMove(t *testing.T) {
	svc := setupService(t, model.Anonymous)
	ctx := context.Background()

	task := newTask("ship the search engine")
	require.NoError(t, CreateEntity(ctx, svc, svc.Store.Tasks, model.EntityTask, task))

	err := Transition(ctx, svc, svc.Store.Tasks, model.EntityTask, task, string(model.TaskInProgress), func() { task.Status = model.TaskInProgress })
	require.NoError(t, err)

	got, err := svc.Store.Tasks.Get(ctx, task.ID, model.Anonymous)
	require.NoError(t, err)
	require.Equal(t, model.TaskInProgress, got.Status)
}

// TestSessionLifecycle is spec §8 scenario S3.
func TestSessionLifecycle(t *testing.T) {
	svc := setupService(t, model.Anonymous)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx)
	require.NoError(t, err)
	require.Equal(t, model.SessionActive, sess.Status)
	require.Nil(t, sess.EndedAt)

	ended, err := svc.EndSession(ctx, sess.ID, "done")
	require.NoError(t, err)
	require.Equal(t, model.SessionWrappedUp, ended.Status)
	require.NotNil(t, ended.EndedAt)
	require.Equal(t, "done", ended.Summary)

	_, err = svc.EndSession(ctx, sess.ID, "done again")
	require.Error(t, err)

	second, err := svc.StartSession(ctx)
	require.NoError(t, err)
	require.Equal(t, model.SessionActive, second.Status)
}

func TestStartSessionAbandonsOrphan(t *testing.T) {
	svc := setupService(t, model.Anonymous)
	ctx := context.Background()

	first, err := svc.StartSession(ctx)
	require.NoError(t, err)

	second, err := svc.StartSession(ctx)
	require.NoError(t, err)
	require.Equal(t, model.SessionActive, second.Status)

	reloadedFirst, err := svc.Store.Sessions.Get(ctx, first.ID, model.Anonymous)
	require.NoError(t, err)
	require.Equal(t, model.SessionAbandoned, reloadedFirst.Status)
}

func TestWhatsNextSurfacesOpenWork(t *testing.T) {
	svc := setupService(t, model.Anonymous)
	ctx := context.Background()

	task := newTask("wire the catalog")
	require.NoError(t, CreateEntity(ctx, svc, svc.Store.Tasks, model.EntityTask, task))

	items, err := svc.WhatsNext(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, task.ID, items[0].ID)
}
