package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents Zenith's full configuration. Precedence, lowest to
// highest: built-in defaults -> config file(s) in the order given -> the
// environment variables in spec §6 -> CLI overrides applied by the caller.
// This mirrors the teacher's "defaults -> file1 -> file2 -> ... -> env ->
// CLI" comment in cmd/quaero/main.go.
type Config struct {
	Project   ProjectConfig   `toml:"project"`
	Storage   StorageConfig   `toml:"storage"`
	Logging   LoggingConfig   `toml:"logging"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Search    SearchConfig    `toml:"search"`
	Walker    WalkerConfig    `toml:"walker"`
	Hooks     HooksConfig     `toml:"hooks"`
	Auth      AuthConfig      `toml:"auth"`
	Onboard   OnboardConfig   `toml:"onboard"`
}

// ProjectConfig locates the project root a Service operates against.
type ProjectConfig struct {
	Root string `toml:"root"` // directory containing .zenith/
}

// StorageConfig groups the two local storage backends: the relational state
// store (spec §4.4) at SQLite.StatePath, and the columnar lake cache (spec
// §4.3), a badgerhold store that lake.Open creates at Badger.Path with its
// source-file blobs under Badger.Path/blobs. SQLite.LakePath is loaded but
// no package opens it.
type StorageConfig struct {
	SQLite SQLiteConfig `toml:"sqlite"`
	Badger BadgerConfig `toml:"badger"`
}

type SQLiteConfig struct {
	StatePath       string `toml:"state_path"` // <project>/.zenith/state.db
	LakePath        string `toml:"lake_path"`  // <project>/.zenith/lake/lake.db
	ResetOnStartup  bool   `toml:"reset_on_startup"`
	Environment     string `toml:"environment"`
}

type BadgerConfig struct {
	Path           string `toml:"path"` // <project>/.zenith/lake/blobs
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Output     []string `toml:"output"`
	TimeFormat string   `toml:"time_format"`
}

// EmbeddingConfig describes the Embedder capability boundary (spec §1): the
// model itself is external, Zenith only knows its cache location and the
// fixed output width.
type EmbeddingConfig struct {
	CacheDir  string `toml:"cache_dir"` // ~/.zenith/cache/<embedder>/
	Model     string `toml:"model"`
	Dimension int    `toml:"dimension"` // always 384 per spec §3
	Timeout   string `toml:"timeout"`
	MaxRetry  int    `toml:"max_retry"`
}

type SearchConfig struct {
	DefaultMode string  `toml:"default_mode"` // vector | fts | hybrid
	MinScore    float32 `toml:"min_score"`
	DefaultLimit int    `toml:"default_limit"`
}

type WalkerConfig struct {
	SkipTests     bool     `toml:"skip_tests"`
	IncludeGlob   []string `toml:"include_glob"`
	ExcludeGlob   []string `toml:"exclude_glob"`
}

type HooksConfig struct {
	Enabled  bool   `toml:"enabled"`
	Strategy string `toml:"strategy"` // chain | refuse
}

// AuthConfig surfaces the environment-overridable identity knobs from spec
// §6 (ZENITH_CLERK__SECRET_KEY, ZENITH_AUTH__TOKEN,
// ZENITH_AUTH__TEST_USER_ID, ZENITH_KEYRING_SERVICE).
type AuthConfig struct {
	ClerkSecretKey string `toml:"-"`
	Token          string `toml:"-"`
	TestUserID     string `toml:"-"`
	KeyringService string `toml:"keyring_service"`
}

// OnboardConfig configures the onboard verb's optional periodic re-index
// hint. Zenith never runs this schedule itself (spec §1 Non-goals exclude
// background services); ReindexSchedule is only validated, then persisted
// for whatever external scheduler a deployment wires up.
type OnboardConfig struct {
	ReindexSchedule string `toml:"reindex_schedule"`
}

// NewDefaultConfig returns Zenith's built-in defaults, the base of the
// precedence chain.
func NewDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Project: ProjectConfig{Root: "."},
		Storage: StorageConfig{
			SQLite: SQLiteConfig{
				StatePath:   filepath.Join(".", ".zenith", "state.db"),
				LakePath:    filepath.Join(".", ".zenith", "lake", "lake.db"),
				Environment: "development",
			},
			Badger: BadgerConfig{
				Path: filepath.Join(".", ".zenith", "lake", "blobs"),
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		Embedding: EmbeddingConfig{
			CacheDir:  filepath.Join(home, ".zenith", "cache"),
			Dimension: 384,
			Timeout:   "30s",
			MaxRetry:  3,
		},
		Search: SearchConfig{
			DefaultMode:  "hybrid",
			MinScore:     0.0,
			DefaultLimit: 20,
		},
		Walker: WalkerConfig{SkipTests: false},
		Hooks:  HooksConfig{Enabled: true, Strategy: "chain"},
		Auth:   AuthConfig{KeyringService: "zenith"},
	}
}

// LoadFromFiles loads defaults, then applies each TOML file in order (later
// files override earlier fields), then applies environment overrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies the environment variables named in spec §6.
// These always win over file configuration, matching the teacher's
// "env -> CLI" tail of the precedence chain.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ZENITH_CLERK__SECRET_KEY"); v != "" {
		config.Auth.ClerkSecretKey = v
	}
	if v := os.Getenv("ZENITH_AUTH__TOKEN"); v != "" {
		config.Auth.Token = v
	}
	if v := os.Getenv("ZENITH_AUTH__TEST_USER_ID"); v != "" {
		config.Auth.TestUserID = v
	}
	if v := os.Getenv("ZENITH_KEYRING_SERVICE"); v != "" {
		config.Auth.KeyringService = v
	}
	if home := os.Getenv("HOME"); home != "" && config.Embedding.CacheDir == "" {
		config.Embedding.CacheDir = filepath.Join(home, ".zenith", "cache")
	}
}

// ApplyFlagOverrides applies CLI flag values (highest precedence) onto an
// already-loaded config. Zero values are treated as "not set" the same way
// cmd/quaero/main.go merges -port/-host.
func ApplyFlagOverrides(config *Config, projectRoot string) {
	if projectRoot != "" {
		config.Project.Root = projectRoot
	}
}

// IsProduction reports whether the configured SQLite environment is
// "production" (a production environment never honors reset_on_startup;
// every other environment does, mirroring the teacher's safety check).
func (c *Config) IsProduction() bool {
	return c.Storage.SQLite.Environment == "production"
}
