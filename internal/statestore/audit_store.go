package statestore

import (
	"context"
	"database/sql"
	"time"

	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// AuditStore is append_audit/query_audit/search_audit (spec §4.5), layered
// over the audit_log/audit_log_fts tables migrateV4AuditLog creates.
// Grounded in the same query idioms the teacher's log_storage.go uses for
// job logs, adapted from badgerhold filters to sqlite+FTS5 since the audit
// trail lives in the relational store rather than the lake.
type AuditStore struct {
	db *DB
}

func NewAuditStore(db *DB) *AuditStore {
	return &AuditStore{db: db}
}

// Append inserts one immutable row. Audit rows are never updated or
// deleted (spec §4.5); this is the only write path.
func (s *AuditStore) Append(ctx context.Context, entry model.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = common.NewEntityID("adt")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO audit_log (id, entity_kind, entity_id, action, session_id, org_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.EntityKind), entry.EntityID, string(entry.Action),
		entry.SessionID, entry.OrgID, entry.Detail, entry.CreatedAt.Unix())
	if err != nil {
		return zerrors.Wrap(zerrors.Io, err, "appending audit entry for %s", entry.EntityID)
	}
	return nil
}

// AuditFilter is query_audit's filter set (spec §4.5): every non-zero
// field narrows the result; all are optional.
type AuditFilter struct {
	EntityKind model.EntityKind
	EntityID   string
	Action     model.AuditAction
	SessionID  string
	Since      time.Time
	Until      time.Time
	Limit      int
}

// QueryAudit returns rows matching filter, newest first, scoped to what
// identity may see. org_id-less rows (the common case: most mutations
// happen before any org is attached) are visible to everyone; org-scoped
// rows follow the same admin-or-matching-org rule as entity visibility.
func (s *AuditStore) QueryAudit(ctx context.Context, filter AuditFilter, identity model.Identity) ([]model.AuditEntry, error) {
	query := `SELECT id, entity_kind, entity_id, action, session_id, org_id, detail, created_at FROM audit_log WHERE 1=1`
	var args []interface{}

	if filter.EntityKind != "" {
		query += ` AND entity_kind = ?`
		args = append(args, string(filter.EntityKind))
	}
	if filter.EntityID != "" {
		query += ` AND entity_id = ?`
		args = append(args, filter.EntityID)
	}
	if filter.Action != "" {
		query += ` AND action = ?`
		args = append(args, string(filter.Action))
	}
	if filter.SessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, filter.SessionID)
	}
	if !filter.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since.Unix())
	}
	if !filter.Until.IsZero() {
		query += ` AND created_at <= ?`
		args = append(args, filter.Until.Unix())
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "querying audit log")
	}
	defer rows.Close()
	return scanVisibleAuditEntries(rows, identity)
}

// SearchAudit runs an FTS5 MATCH query over the detail column.
func (s *AuditStore) SearchAudit(ctx context.Context, query string, identity model.Identity, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT a.id, a.entity_kind, a.entity_id, a.action, a.session_id, a.org_id, a.detail, a.created_at
		FROM audit_log_fts f
		JOIN audit_log a ON a.rowid = f.rowid
		WHERE audit_log_fts MATCH ?
		ORDER BY rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "searching audit log for %q", query)
	}
	defer rows.Close()
	return scanVisibleAuditEntries(rows, identity)
}

func scanVisibleAuditEntries(rows *sql.Rows, identity model.Identity) ([]model.AuditEntry, error) {
	var out []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var entityKind, action string
		var createdAt int64
		if err := rows.Scan(&e.ID, &entityKind, &e.EntityID, &action, &e.SessionID, &e.OrgID, &e.Detail, &createdAt); err != nil {
			return nil, zerrors.Wrap(zerrors.Io, err, "scanning audit row")
		}
		e.EntityKind = model.EntityKind(entityKind)
		e.Action = model.AuditAction(action)
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		if auditVisibleTo(e, identity) {
			out = append(out, e)
		}
	}
	return out, nil
}

func auditVisibleTo(e model.AuditEntry, identity model.Identity) bool {
	if e.OrgID == nil || *e.OrgID == "" {
		return true
	}
	if identity.IsAdmin {
		return true
	}
	return identity.OrgID != "" && identity.OrgID == *e.OrgID
}
