package statestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// Record is the generic persisted shape of one entities row. Repos for a
// specific EntityKind marshal/unmarshal Data into their concrete Go
// struct; the store itself never needs to know the concrete type.
type Record struct {
	ID         string
	Kind       model.EntityKind
	OrgID      *string
	SessionID  *string
	Status     string
	SearchText string
	Data       json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EntityStore is the shared CRUD/search/tag/link layer every typed repo
// (SessionRepo, FindingRepo, ...) is built on top of (spec §4.4).
type EntityStore struct {
	db *DB
}

func NewEntityStore(db *DB) *EntityStore {
	return &EntityStore{db: db}
}

// Create inserts a new entity row. Returns ConstraintViolation if the id
// already exists.
func (s *EntityStore) Create(ctx context.Context, rec Record) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO entities (id, kind, org_id, session_id, status, search_text, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), rec.OrgID, rec.SessionID, rec.Status, rec.SearchText,
		string(rec.Data), rec.CreatedAt.Unix(), rec.UpdatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return zerrors.Wrap(zerrors.ConstraintViolation, err, "entity %s already exists", rec.ID)
		}
		return zerrors.Wrap(zerrors.Io, err, "creating entity %s", rec.ID)
	}
	return nil
}

// Get fetches one entity by id. Deliberately unfiltered by org_id: ids
// are opaque, server-generated, and never enumerable, so disclosure via
// a known id is the caller's choice, not a visibility leak (spec §4.4).
// List and Search, which do let a caller enumerate rows, apply
// visibleTo instead.
func (s *EntityStore) Get(ctx context.Context, id string, identity model.Identity) (Record, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, kind, org_id, session_id, status, search_text, data, created_at, updated_at
		FROM entities WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Record{}, zerrors.New(zerrors.NoResult, "entity %s not found", id)
		}
		return Record{}, zerrors.Wrap(zerrors.Io, err, "fetching entity %s", id)
	}
	return rec, nil
}

// Update overwrites Data/Status/SearchText and bumps UpdatedAt. The
// caller is responsible for having already validated any status
// transition via model.Transitionable before calling Update.
func (s *EntityStore) Update(ctx context.Context, rec Record) error {
	res, err := s.db.Conn().ExecContext(ctx, `
		UPDATE entities SET status = ?, search_text = ?, data = ?, updated_at = ?
		WHERE id = ?`,
		rec.Status, rec.SearchText, string(rec.Data), rec.UpdatedAt.Unix(), rec.ID)
	if err != nil {
		return zerrors.Wrap(zerrors.Io, err, "updating entity %s", rec.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return zerrors.New(zerrors.NoResult, "entity %s not found", rec.ID)
	}
	return nil
}

// Delete removes an entity and its tags/links in one transaction.
// entity_tags and entity_links reference ids by value with no foreign key,
// so both are cleaned up explicitly.
func (s *EntityStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return zerrors.Wrap(zerrors.Io, err, "beginning delete transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE id = ?`, id); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "deleting entity %s", id)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entity_tags WHERE entity_id = ?`, id); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "deleting tags for %s", id)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entity_links WHERE from_id = ? OR to_id = ?`, id, id); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "deleting links for %s", id)
	}
	return tx.Commit()
}

// List returns every entity of kind visible to identity, newest first.
func (s *EntityStore) List(ctx context.Context, kind model.EntityKind, identity model.Identity) ([]Record, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, kind, org_id, session_id, status, search_text, data, created_at, updated_at
		FROM entities WHERE kind = ? ORDER BY created_at DESC`, string(kind))
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "listing %s entities", kind)
	}
	defer rows.Close()
	return scanVisible(rows, identity)
}

// Search runs an FTS5 MATCH query over search_text, optionally scoped to
// one kind, filtered by visibility.
func (s *EntityStore) Search(ctx context.Context, query string, kind model.EntityKind, identity model.Identity, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	sqlQuery := `
		SELECT e.id, e.kind, e.org_id, e.session_id, e.status, e.search_text, e.data, e.created_at, e.updated_at
		FROM entities_fts f
		JOIN entities e ON e.rowid = f.rowid
		WHERE entities_fts MATCH ?`
	args := []interface{}{query}
	if kind != "" {
		sqlQuery += ` AND e.kind = ?`
		args = append(args, string(kind))
	}
	sqlQuery += ` ORDER BY rank LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Conn().QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "searching entities for %q", query)
	}
	defer rows.Close()
	return scanVisible(rows, identity)
}

// Tag attaches a tag to an entity; re-tagging with the same value is a
// no-op (idempotent, spec §8's "idempotent on repeated application").
func (s *EntityStore) Tag(ctx context.Context, entityID, tag string) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT OR IGNORE INTO entity_tags (entity_id, tag) VALUES (?, ?)`, entityID, tag)
	if err != nil {
		return zerrors.Wrap(zerrors.Io, err, "tagging %s", entityID)
	}
	return nil
}

func (s *EntityStore) Untag(ctx context.Context, entityID, tag string) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`DELETE FROM entity_tags WHERE entity_id = ? AND tag = ?`, entityID, tag)
	if err != nil {
		return zerrors.Wrap(zerrors.Io, err, "untagging %s", entityID)
	}
	return nil
}

func (s *EntityStore) Tags(ctx context.Context, entityID string) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT tag FROM entity_tags WHERE entity_id = ? ORDER BY tag`, entityID)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "listing tags for %s", entityID)
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, zerrors.Wrap(zerrors.Io, err, "scanning tag")
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// Link records a directed relation between two entities (spec §4.4's
// link/unlink verbs).
func (s *EntityStore) Link(ctx context.Context, link model.EntityLink) (string, error) {
	id := linkID(link)
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT OR IGNORE INTO entity_links (id, from_kind, from_id, to_kind, to_id, relation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(link.FromKind), link.FromID, string(link.ToKind), link.ToID, string(link.Relation), time.Now().Unix())
	if err != nil {
		return "", zerrors.Wrap(zerrors.Io, err, "linking %s to %s", link.FromID, link.ToID)
	}
	return id, nil
}

func (s *EntityStore) Unlink(ctx context.Context, linkID string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM entity_links WHERE id = ?`, linkID)
	if err != nil {
		return zerrors.Wrap(zerrors.Io, err, "unlinking %s", linkID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return zerrors.New(zerrors.NoResult, "link %s not found", linkID)
	}
	return nil
}

// LinksFrom returns every link whose FromID matches id, used by the
// search package's graph/decision-trace builder (spec §4.7).
func (s *EntityStore) LinksFrom(ctx context.Context, id string) ([]model.EntityLink, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT from_kind, from_id, to_kind, to_id, relation FROM entity_links WHERE from_id = ?`, id)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "listing links from %s", id)
	}
	defer rows.Close()
	var links []model.EntityLink
	for rows.Next() {
		var l model.EntityLink
		var fromKind, toKind string
		if err := rows.Scan(&fromKind, &l.FromID, &toKind, &l.ToID, &l.Relation); err != nil {
			return nil, zerrors.Wrap(zerrors.Io, err, "scanning link")
		}
		l.FromKind = model.EntityKind(fromKind)
		l.ToKind = model.EntityKind(toKind)
		links = append(links, l)
	}
	return links, nil
}

// AllLinks returns every link in the store, used to seed graph
// construction (spec §4.7).
func (s *EntityStore) AllLinks(ctx context.Context) ([]model.EntityLink, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT from_kind, from_id, to_kind, to_id, relation FROM entity_links`)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "listing all links")
	}
	defer rows.Close()
	var links []model.EntityLink
	for rows.Next() {
		var l model.EntityLink
		var fromKind, toKind string
		if err := rows.Scan(&fromKind, &l.FromID, &toKind, &l.ToID, &l.Relation); err != nil {
			return nil, zerrors.Wrap(zerrors.Io, err, "scanning link")
		}
		l.FromKind = model.EntityKind(fromKind)
		l.ToKind = model.EntityKind(toKind)
		links = append(links, l)
	}
	return links, nil
}

func linkID(link model.EntityLink) string {
	return "lnk-" + common.HashID(string(link.FromKind), link.FromID, string(link.ToKind), link.ToID, string(link.Relation))
}

func visibleTo(rec Record, identity model.Identity) bool {
	if rec.OrgID == nil || *rec.OrgID == "" {
		return true
	}
	if identity.IsAdmin {
		return true
	}
	return identity.OrgID != "" && identity.OrgID == *rec.OrgID
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var kind, data string
	var createdAt, updatedAt int64
	err := row.Scan(&rec.ID, &kind, &rec.OrgID, &rec.SessionID, &rec.Status, &rec.SearchText, &data, &createdAt, &updatedAt)
	if err != nil {
		return Record{}, err
	}
	rec.Kind = model.EntityKind(kind)
	rec.Data = json.RawMessage(data)
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	rec.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return rec, nil
}

func scanVisible(rows *sql.Rows, identity model.Identity) ([]Record, error) {
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, zerrors.Wrap(zerrors.Io, err, "scanning entity row")
		}
		if visibleTo(rec, identity) {
			out = append(out, rec)
		}
	}
	return out, nil
}
