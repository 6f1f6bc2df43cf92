package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRustExtractorFlattensImplMethods(t *testing.T) {
	src := `pub struct Config {
    name: String,
}

impl Config {
    pub fn new() -> Self {
        Config { name: String::new() }
    }

    pub fn name(&self) -> &str {
        &self.name
    }
}
`
	items, err := NewRustExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Config", items[0].Name)
	assert.Equal(t, "new", items[1].Name)
	assert.Equal(t, "constructor", string(items[1].Kind))
	assert.Equal(t, "Config", items[1].Metadata.OwnerName)
	assert.Equal(t, "name", items[2].Name)
	assert.Equal(t, "method", string(items[2].Kind))
}

func TestRustExtractorTraitImplCarriesForType(t *testing.T) {
	src := `pub trait Greeter {
    fn greet(&self) -> String;
}

impl Greeter for Config {
    fn greet(&self) -> String {
        "hi".to_string()
    }
}
`
	items, err := NewRustExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Greeter", items[0].Name)
	assert.Equal(t, "greet", items[2].Name)
	assert.Equal(t, "Greeter", items[2].Metadata.TraitName)
	assert.Equal(t, "Config", items[2].Metadata.ForType)
}

func TestRustExtractorEnumVariantsAndResult(t *testing.T) {
	src := `pub enum LoadError {
    NotFound,
    Invalid(String),
}

pub fn load() -> Result<Config, LoadError> {
    Ok(Config { name: String::new() })
}
`
	items, err := NewRustExtractor().Extract(src)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, []string{"NotFound", "Invalid"}, items[0].Metadata.Variants)
	assert.True(t, items[0].Metadata.IsErrorType)
	assert.True(t, items[1].Metadata.ReturnsResult)
}
