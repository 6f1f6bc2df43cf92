package statestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

func newTask(title string) *model.Task {
	return &model.Task{
		EntityBase: model.EntityBase{
			ID:        NewEntityIDFor(model.EntityTask),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Status: model.TaskOpen,
		Title:  title,
	}
}

func TestRepoCreateGetUpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	task := newTask("write the walker package")
	require.NoError(t, store.Tasks.Create(ctx, task))

	got, err := store.Tasks.Get(ctx, task.ID, model.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, model.TaskOpen, got.Status)

	require.True(t, got.CanTransitionTo(string(model.TaskInProgress)))
	got.Status = model.TaskInProgress
	require.NoError(t, store.Tasks.Update(ctx, got))

	got, err = store.Tasks.Get(ctx, task.ID, model.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, model.TaskInProgress, got.Status)

	require.NoError(t, store.Tasks.Delete(ctx, task.ID))
	_, err = store.Tasks.Get(ctx, task.ID, model.Anonymous)
	assert.Error(t, err)
}

func TestRepoRejectsInvalidTransitionBeforeUpdate(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	task := newTask("done already")
	task.Status = model.TaskDone
	require.NoError(t, store.Tasks.Create(ctx, task))

	got, err := store.Tasks.Get(ctx, task.ID, model.Anonymous)
	require.NoError(t, err)

	// Done is terminal: callers must check CanTransitionTo before Update,
	// Repo itself does not enforce it.
	assert.False(t, got.CanTransitionTo(string(model.TaskOpen)))
}

func TestRepoListAndSearch(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	a := newTask("refactor the retry loop")
	b := newTask("document the walker package")
	require.NoError(t, store.Tasks.Create(ctx, a))
	require.NoError(t, store.Tasks.Create(ctx, b))

	all, err := store.Tasks.List(ctx, model.Anonymous)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := store.Tasks.Search(ctx, "retry", model.Anonymous, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)
}

func TestRepoTagUntag(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	task := newTask("tag me")
	require.NoError(t, store.Tasks.Create(ctx, task))

	require.NoError(t, store.Tasks.Tag(ctx, task.ID, "p1"))
	tags, err := store.Tasks.Tags(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, tags)

	require.NoError(t, store.Tasks.Untag(ctx, task.ID, "p1"))
	tags, err = store.Tasks.Tags(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestRepoLifecycleFreeEntityHasNoStatus(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	insight := &model.Insight{
		EntityBase: model.EntityBase{ID: common.NewEntityID(string(model.EntityInsight)), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Title:      "embedder batches are capped at 96 inputs",
		Body:       "the provider rejects larger batches with a 400",
	}
	require.NoError(t, store.Insights.Create(ctx, insight))

	got, err := store.Insights.Get(ctx, insight.ID, model.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, insight.Title, got.Title)
	assert.Equal(t, "", got.EntityStatus())
}

func TestNewEntityIDForUsesKindPrefix(t *testing.T) {
	id := NewEntityIDFor(model.EntityFinding)
	assert.Contains(t, id, string(model.EntityFinding)+"-")
}

func TestRepoCreateRejectsMissingRequiredField(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	task := &model.Task{
		EntityBase: model.EntityBase{
			ID:        NewEntityIDFor(model.EntityTask),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Status: model.TaskOpen,
		// Title deliberately left blank; validate:"required" must reject it
		// before the row ever reaches the entities table.
	}
	err := store.Tasks.Create(ctx, task)
	require.Error(t, err)
	assert.Equal(t, zerrors.ConstraintViolation, zerrors.KindOf(err))

	_, getErr := store.Tasks.Get(ctx, task.ID, model.Anonymous)
	assert.Error(t, getErr, "rejected create must not leave a partial row behind")
}
