// Package statestore implements Zenith's relational store (spec §4.4):
// entity repositories (Session/Research/Finding/Hypothesis/Insight/Issue/
// Task/ImplLog/CompatCheck/Study), entity links, and tags, all layered
// over one physical SQLite database per project (<project>/.zenith/state.db).
//
// Grounded in the teacher's internal/storage/sqlite package: the same
// connection setup (single-writer pool, WAL mode, busy_timeout), the same
// versioned migration runner, and the same FTS5-with-sync-triggers idiom
// (internal/storage/sqlite/connection.go, migrations.go).
package statestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	_ "modernc.org/sqlite"

	"github.com/zenith-dev/zenith/internal/common"
)

// Config mirrors the teacher's common.SQLiteConfig shape, trimmed to the
// fields Zenith's single-project database needs.
type Config struct {
	Path           string
	CacheSizeMB    int
	BusyTimeoutMS  int
	WALMode        bool
}

func DefaultConfig(path string) *Config {
	return &Config{Path: path, CacheSizeMB: 32, BusyTimeoutMS: 5000, WALMode: true}
}

// DB wraps the project's relational connection.
type DB struct {
	sql    *sql.DB
	logger arbor.ILogger
}

// Open creates (or opens) the state database at cfg.Path, applying
// pragmas and running every pending migration, matching the teacher's
// NewSQLiteDB flow.
func Open(cfg *Config, logger arbor.ILogger) (*DB, error) {
	if logger == nil {
		logger = common.GetLogger()
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state db directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	// SQLite tolerates only one writer; the teacher pins the pool to a
	// single connection for the same reason (connection.go).
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	db := &DB{sql: sqlDB, logger: logger}
	if err := db.configure(cfg); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := db.migrate(context.Background()); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) configure(cfg *Config) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA cache_size = -%d", cfg.CacheSizeMB*1024),
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeoutMS),
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	if cfg.WALMode {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := d.sql.Exec(p); err != nil {
			return fmt.Errorf("executing %q: %w", p, err)
		}
	}
	return nil
}

func (d *DB) Conn() *sql.DB { return d.sql }

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) Ping(ctx context.Context) error { return d.sql.PingContext(ctx) }
