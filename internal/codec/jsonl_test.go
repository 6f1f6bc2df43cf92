package codec

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestWriteThenReadJSONLRoundtrips(t *testing.T) {
	rows := []sample{{ID: "a", Count: 1}, {ID: "b", Count: 2}, {ID: "c", Count: 3}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, rows))

	got, err := ReadJSONL[sample](&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestAppendJSONLFileAccumulatesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trail.jsonl")

	require.NoError(t, AppendJSONLFile(path, sample{ID: "a", Count: 1}))
	require.NoError(t, AppendJSONLFile(path, sample{ID: "b", Count: 2}))
	require.NoError(t, AppendJSONLFile(path, sample{ID: "c", Count: 3}))

	got, err := ReadJSONLFile[sample](path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestReadJSONLSkipsBlankLines(t *testing.T) {
	buf := bytes.NewBufferString("{\"id\":\"a\",\"count\":1}\n\n{\"id\":\"b\",\"count\":2}\n")
	got, err := ReadJSONL[sample](buf)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReadJSONLFileMissingFileErrors(t *testing.T) {
	_, err := ReadJSONLFile[sample](filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
