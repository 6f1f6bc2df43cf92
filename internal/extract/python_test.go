package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/model"
)

func TestPythonExtractorProtocolIsInterface(t *testing.T) {
	src := `class Validator(Protocol):
    def validate(self) -> bool:
        ...
`
	items, err := NewPythonExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, model.KindInterface, items[0].Kind)
	assert.Equal(t, "Validator", items[0].Name)
	assert.True(t, items[0].Metadata.IsProtocol)
	assert.Equal(t, []string{"Protocol"}, items[0].Metadata.BaseClasses)
}

func TestPythonExtractorEnumIsEnumWithVariants(t *testing.T) {
	src := `class Color(Enum):
    RED = 1
    GREEN = 2
    BLUE = 3
`
	items, err := NewPythonExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, model.KindEnum, items[0].Kind)
	assert.True(t, items[0].Metadata.IsEnum)
	assert.Equal(t, []string{"RED", "GREEN", "BLUE"}, items[0].Metadata.Variants)
}

func TestPythonExtractorPlainClassIsClass(t *testing.T) {
	src := `class Widget:
    def __init__(self):
        self.name = "widget"
`
	items, err := NewPythonExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, model.KindClass, items[0].Kind)
	assert.False(t, items[0].Metadata.IsProtocol)
	assert.False(t, items[0].Metadata.IsEnum)

	assert.Equal(t, model.KindConstructor, items[1].Kind)
	assert.Equal(t, "Widget", items[1].Metadata.OwnerName)
}
