package audit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/codec"
	"github.com/zenith-dev/zenith/internal/model"
)

func TestFileWriterAppendWritesEnvelopeVersionAndTimestamp(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(dir, "ses-1", nil)

	require.NoError(t, w.Append(model.TrailOperation{Ses: "ses-1", Op: "create", Entity: model.EntityTask, ID: "tsk-1"}))
	require.NoError(t, w.Append(model.TrailOperation{Ses: "ses-1", Op: "update", Entity: model.EntityTask, ID: "tsk-1"}))

	ops, err := codec.ReadJSONLFile[model.TrailOperation](w.Path())
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, model.TrailEnvelopeVersion, ops[0].V)
	assert.NotZero(t, ops[0].TS)
	assert.Equal(t, "create", ops[0].Op)
	assert.Equal(t, "update", ops[1].Op)
}

func TestFileWriterPathMatchesSessionNamingConvention(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(dir, "ses-42", nil)
	assert.Equal(t, filepath.Join(dir, "ses-42.jsonl"), w.Path())
	assert.Equal(t, w.Path(), SessionFilePath(dir, "ses-42"))
}

func TestAppendValidatedWarnsButStillWritesOnFailure(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(dir, "ses-1", nil)
	registry := DefaultRegistry()

	// "transition" requires a "to" field in Data; this op omits it.
	op := model.TrailOperation{Ses: "ses-1", Op: "transition", Entity: model.EntityTask, ID: "tsk-1"}
	require.NoError(t, w.AppendValidated(op, registry))

	ops, err := codec.ReadJSONLFile[model.TrailOperation](w.Path())
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "transition", ops[0].Op)
}

func TestAppendValidatedPassesOnWellFormedOp(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(dir, "ses-1", nil)
	registry := DefaultRegistry()

	op := model.TrailOperation{
		Ses: "ses-1", Op: "transition", Entity: model.EntityTask, ID: "tsk-1",
		Data: map[string]interface{}{"to": "done"},
	}
	require.NoError(t, w.AppendValidated(op, registry))

	ops, err := codec.ReadJSONLFile[model.TrailOperation](w.Path())
	require.NoError(t, err)
	require.Len(t, ops, 1)
}

func TestNoopWriterNeverTouchesDisk(t *testing.T) {
	dir := t.TempDir()
	var w Writer = NoopWriter{}
	require.NoError(t, w.Append(model.TrailOperation{Ses: "ses-1", Op: "create"}))
	require.NoError(t, w.AppendValidated(model.TrailOperation{Ses: "ses-1", Op: "create"}, DefaultRegistry()))
	require.NoError(t, w.Close())

	entries, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
