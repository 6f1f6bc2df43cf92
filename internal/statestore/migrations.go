package statestore

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	up      func(context.Context, *sql.Tx) error
}

func (d *DB) migrate(ctx context.Context) error {
	if err := d.createMigrationsTable(ctx); err != nil {
		return err
	}
	migrations := []migration{
		{version: 1, name: "entities", up: migrateV1Entities},
		{version: 2, name: "entities_fts", up: migrateV2EntitiesFTS},
		{version: 3, name: "links_and_tags", up: migrateV3LinksAndTags},
		{version: 4, name: "audit_log", up: migrateV4AuditLog},
		{version: 5, name: "catalog", up: migrateV5Catalog},
	}
	for _, m := range migrations {
		if err := d.runMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
	}
	return nil
}

func (d *DB) createMigrationsTable(ctx context.Context) error {
	_, err := d.sql.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at INTEGER NOT NULL
		)`)
	return err
}

func (d *DB) runMigration(ctx context.Context, m migration) error {
	var count int
	if err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.version).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.up(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, strftime('%s', 'now'))",
		m.version, m.name); err != nil {
		return err
	}
	return tx.Commit()
}

// migrateV1Entities creates the single generic entities table backing
// every Session/Research/Finding/Hypothesis/Insight/Issue/Task/ImplLog/
// CompatCheck/Study repo. A single table (kind-discriminated, JSON body)
// mirrors the teacher's own "data JSON" columns (jira_projects,
// confluence_spaces, auth_credentials in migrations.go's migrateV1) rather
// than ten near-identical tables with ten near-identical repo structs.
func migrateV1Entities(ctx context.Context, tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			org_id TEXT,
			session_id TEXT,
			status TEXT NOT NULL DEFAULT '',
			search_text TEXT NOT NULL DEFAULT '',
			data TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_org ON entities(org_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_session ON entities(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_kind_status ON entities(kind, status)`,
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// migrateV2EntitiesFTS mirrors the teacher's documents_fts
// content-table-plus-sync-triggers pattern (migrations.go's migrateV3),
// applied to the entities table's search_text projection instead of a
// fixed title/content pair.
func migrateV2EntitiesFTS(ctx context.Context, tx *sql.Tx) error {
	var fts5Enabled bool
	err := tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pragma_compile_options WHERE compile_options LIKE '%ENABLE_FTS5%')").Scan(&fts5Enabled)
	if err != nil || !fts5Enabled {
		return nil
	}

	queries := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS entities_fts USING fts5(
			id UNINDEXED,
			kind UNINDEXED,
			search_text,
			content=entities,
			content_rowid=rowid
		)`,
		`CREATE TRIGGER IF NOT EXISTS entities_ai AFTER INSERT ON entities BEGIN
			INSERT INTO entities_fts(rowid, id, kind, search_text)
			VALUES (new.rowid, new.id, new.kind, new.search_text);
		END`,
		`CREATE TRIGGER IF NOT EXISTS entities_ad AFTER DELETE ON entities BEGIN
			DELETE FROM entities_fts WHERE rowid = old.rowid;
		END`,
		`CREATE TRIGGER IF NOT EXISTS entities_au AFTER UPDATE ON entities BEGIN
			DELETE FROM entities_fts WHERE rowid = old.rowid;
			INSERT INTO entities_fts(rowid, id, kind, search_text)
			VALUES (new.rowid, new.id, new.kind, new.search_text);
		END`,
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return nil // FTS5 creation failures are non-fatal, same as migrateV2 in the teacher.
		}
	}
	return nil
}

func migrateV3LinksAndTags(ctx context.Context, tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS entity_links (
			id TEXT PRIMARY KEY,
			from_kind TEXT NOT NULL,
			from_id TEXT NOT NULL,
			to_kind TEXT NOT NULL,
			to_id TEXT NOT NULL,
			relation TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_links_from ON entity_links(from_kind, from_id)`,
		`CREATE INDEX IF NOT EXISTS idx_links_to ON entity_links(to_kind, to_id)`,
		`CREATE TABLE IF NOT EXISTS entity_tags (
			entity_id TEXT NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY (entity_id, tag)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tags_tag ON entity_tags(tag)`,
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// migrateV4AuditLog creates the append-only operations log (spec §4.5).
// Rows are append-only, so unlike entities_fts there is only an
// after-insert sync trigger. Follows the same id-TEXT-primary-key plus
// implicit-rowid-for-FTS pattern as migrateV2EntitiesFTS.
func migrateV4AuditLog(ctx context.Context, tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS audit_log (
			id TEXT PRIMARY KEY,
			entity_kind TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			action TEXT NOT NULL,
			session_id TEXT,
			org_id TEXT,
			detail TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_kind, entity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_session ON audit_log(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at DESC)`,
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}

	var fts5Enabled bool
	err := tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pragma_compile_options WHERE compile_options LIKE '%ENABLE_FTS5%')").Scan(&fts5Enabled)
	if err != nil || !fts5Enabled {
		return nil
	}

	ftsQueries := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS audit_log_fts USING fts5(
			id UNINDEXED,
			detail,
			content=audit_log,
			content_rowid=rowid
		)`,
		`CREATE TRIGGER IF NOT EXISTS audit_log_ai AFTER INSERT ON audit_log BEGIN
			INSERT INTO audit_log_fts(rowid, id, detail)
			VALUES (new.rowid, new.id, new.detail);
		END`,
	}
	for _, q := range ftsQueries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return nil // FTS5 creation failures are non-fatal, same as migrateV2EntitiesFTS.
		}
	}
	return nil
}

// migrateV5Catalog creates dl_data_file, the catalog mapping
// (ecosystem, package, version, lance_path) to visibility/org/owner (spec
// §4.6). Uniqueness on the four-tuple is what makes catalog registration
// idempotent (spec §9's "idempotent catalog registration").
func migrateV5Catalog(ctx context.Context, tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS dl_data_file (
			snapshot_id TEXT PRIMARY KEY,
			ecosystem TEXT NOT NULL,
			package TEXT NOT NULL,
			version TEXT NOT NULL,
			lance_path TEXT NOT NULL,
			visibility TEXT NOT NULL,
			org_id TEXT,
			owner_sub TEXT,
			created_at INTEGER NOT NULL,
			UNIQUE (ecosystem, package, version, lance_path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_pkg ON dl_data_file(ecosystem, package, version)`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_visibility ON dl_data_file(visibility)`,
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}
