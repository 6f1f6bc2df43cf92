package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoExtractorFunctionsAndDocs(t *testing.T) {
	src := `package sample

// Add returns the sum of a and b.
func Add(a int, b int) int {
	return a + b
}

func unexportedHelper() {
}
`
	items, err := NewGoExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Add", items[0].Name)
	assert.Equal(t, "Add returns the sum of a and b.", items[0].DocComment)
	assert.Equal(t, "public", string(items[0].Visibility))
	require.Len(t, items[0].Metadata.Parameters, 2)
	assert.Equal(t, "a", items[0].Metadata.Parameters[0].Name)

	assert.Equal(t, "unexportedHelper", items[1].Name)
	assert.Equal(t, "private", string(items[1].Visibility))
}

func TestGoExtractorMethodsCarryOwner(t *testing.T) {
	src := `package sample

type Counter struct {
	value int
}

func (c *Counter) Increment() {
	c.value++
}
`
	items, err := NewGoExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Counter", items[0].Name)
	assert.Equal(t, "Increment", items[1].Name)
	assert.Equal(t, "Counter", items[1].Metadata.OwnerName)
}
