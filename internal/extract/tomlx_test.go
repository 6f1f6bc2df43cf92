package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/model"
)

func TestTOMLExtractorTopLevelKeys(t *testing.T) {
	src := "name = \"zenith\"\nversion = 1\n"
	items, err := NewTOMLExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "name", items[0].Name)
	assert.Equal(t, "name", items[0].Metadata.PropertyPath)
}

func TestTOMLExtractorRecursesNestedTable(t *testing.T) {
	src := "[app]\nname = \"zenith\"\ndebug = false\n"
	items, err := NewTOMLExtractor().Extract(src)
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

func TestTOMLExtractorIndexesArrayOfTables(t *testing.T) {
	src := "[[routes]]\npath = \"/health\"\n\n[[routes]]\npath = \"/search\"\n"
	items, err := NewTOMLExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "routes", items[0].Name)

	assert.Equal(t, "path", items[1].Name)
	assert.Equal(t, "routes[0].path", items[1].Metadata.PropertyPath)

	assert.Equal(t, "path", items[2].Name)
	assert.Equal(t, "routes[1].path", items[2].Metadata.PropertyPath)
}

func TestTOMLExtractorCargoDependencyTableEmitsOwnershipPath(t *testing.T) {
	src := "[dependencies]\nserde = \"1.0\"\ntokio = \"1.0\"\n"
	items, err := NewTOMLExtractor().Extract(src)
	require.NoError(t, err)

	var found []model.ParsedItem
	for _, it := range items {
		if it.Metadata.PropertyPath == "cargo:dependencies.serde" {
			found = append(found, it)
		}
	}
	require.Len(t, found, 1)
	assert.Equal(t, "serde", found[0].Name)
	assert.Equal(t, model.KindConst, found[0].Kind)
}

func TestTOMLExtractorPoetryDependencyTableEmitsOwnershipPath(t *testing.T) {
	src := "[tool.poetry.dependencies]\nrequests = \"^2.0\"\n"
	items, err := NewTOMLExtractor().Extract(src)
	require.NoError(t, err)

	var found []model.ParsedItem
	for _, it := range items {
		if it.Metadata.PropertyPath == "poetry:tool.poetry.dependencies.requests" {
			found = append(found, it)
		}
	}
	require.Len(t, found, 1)
	assert.Equal(t, "requests", found[0].Name)
}

func TestTOMLExtractorPEP508DependencyListEmitsOwnershipPath(t *testing.T) {
	src := "[project]\ndependencies = [\"requests>=2.0\", \"click\"]\n"
	items, err := NewTOMLExtractor().Extract(src)
	require.NoError(t, err)

	var found []model.ParsedItem
	for _, it := range items {
		if it.Name == "requests" {
			found = append(found, it)
		}
	}
	require.Len(t, found, 1)
	assert.Equal(t, "pep508:project.dependencies[0]", found[0].Metadata.PropertyPath)
	assert.Equal(t, "requests>=2.0", found[0].Signature)
}
