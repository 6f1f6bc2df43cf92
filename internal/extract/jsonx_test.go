package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/model"
)

func TestJSONExtractorTopLevelKeys(t *testing.T) {
	src := `{"name": "zenith", "version": 1}`
	items, err := NewJSONExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "name", items[0].Name)
	assert.Equal(t, "name", items[0].Metadata.PropertyPath)
	assert.Equal(t, "version", items[1].Name)
}

func TestJSONExtractorRecursesNestedObject(t *testing.T) {
	src := `{"app": {"name": "zenith", "debug": false}}`
	items, err := NewJSONExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "app", items[0].Name)
	assert.Equal(t, model.KindModule, items[0].Kind)
	assert.Equal(t, "app", items[0].Metadata.PropertyPath)

	assert.Equal(t, "debug", items[1].Name)
	assert.Equal(t, "app.debug", items[1].Metadata.PropertyPath)

	assert.Equal(t, "name", items[2].Name)
	assert.Equal(t, "app.name", items[2].Metadata.PropertyPath)
}

func TestJSONExtractorIndexesArrayOfObjects(t *testing.T) {
	src := `{"routes": [{"path": "/health"}, {"path": "/search"}]}`
	items, err := NewJSONExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "routes", items[0].Name)
	assert.Equal(t, model.KindProperty, items[0].Kind)

	assert.Equal(t, "path", items[1].Name)
	assert.Equal(t, "routes[0].path", items[1].Metadata.PropertyPath)

	assert.Equal(t, "path", items[2].Name)
	assert.Equal(t, "routes[1].path", items[2].Metadata.PropertyPath)
}
