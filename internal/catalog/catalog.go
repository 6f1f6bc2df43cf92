// Package catalog implements dl_data_file (spec §4.6): the mapping of
// (ecosystem, package, version, lance_path) to visibility/org/owner, and the
// two read paths every caller needs — a public-only existence probe for
// crowdsource dedup, and a visibility-scoped path list for search. Grounded
// in the teacher's internal/storage/sqlite package's repo idiom
// (source_storage.go's upsert-by-unique-tuple pattern), laid directly over
// the statestore's *sql.DB rather than a new physical database, since the
// catalog is a relational concern, not a columnar one.
package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/statestore"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// Catalog wraps the statestore's connection for dl_data_file operations.
type Catalog struct {
	db *statestore.DB
}

func New(db *statestore.DB) *Catalog {
	return &Catalog{db: db}
}

// snapshotID derives a stable id from the four-tuple that makes
// registration idempotent (spec §4.6, §9): repeated registrations of the
// same tuple always compute the same id, so Register's ON CONFLICT upsert
// coalesces instead of duplicating rows.
func snapshotID(ecosystem, pkg, version, lancePath string) string {
	sum := md5.Sum([]byte(strings.Join([]string{ecosystem, pkg, version, lancePath}, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

// Register upserts a catalog row, idempotent on (ecosystem, package,
// version, lance_path). A retry after a partial failure recomputes the
// same snapshot_id and replaces the row rather than duplicating it.
func (c *Catalog) Register(ctx context.Context, df model.DataFile) (string, error) {
	id := snapshotID(df.Ecosystem, df.Package, df.Version, df.LancePath)
	_, err := c.db.Conn().ExecContext(ctx, `
		INSERT INTO dl_data_file (snapshot_id, ecosystem, package, version, lance_path, visibility, org_id, owner_sub, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, strftime('%s','now'))
		ON CONFLICT (ecosystem, package, version, lance_path) DO UPDATE SET
			visibility = excluded.visibility,
			org_id = excluded.org_id,
			owner_sub = excluded.owner_sub`,
		id, df.Ecosystem, df.Package, df.Version, df.LancePath, string(df.Visibility), nullable(df.OrgID), nullable(df.OwnerSub))
	if err != nil {
		return "", zerrors.Wrap(zerrors.Io, err, "registering catalog entry for %s/%s@%s", df.Ecosystem, df.Package, df.Version)
	}
	return id, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// HasPackage is the public-only existence probe used for crowdsource
// dedup (spec §4.6): it never leaks the existence of team/private data to
// an unauthenticated dedup check.
func (c *Catalog) HasPackage(ctx context.Context, ecosystem, pkg, version string) (bool, error) {
	var count int
	err := c.db.Conn().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dl_data_file
		WHERE ecosystem = ? AND package = ? AND version = ? AND visibility = ?`,
		ecosystem, pkg, version, string(model.VisibilityPublic)).Scan(&count)
	if err != nil {
		return false, zerrors.Wrap(zerrors.Io, err, "checking catalog for %s/%s@%s", ecosystem, pkg, version)
	}
	return count > 0, nil
}

// PathsForPackageScoped returns the lance_path values a caller's identity
// may read for one package, optionally pinned to a version (spec §4.6).
// The SQL mirrors the spec's filter exactly: with an identity, public OR
// (team AND org match) OR (private AND owner match); without one, public
// only. The team clause is only meaningful when the identity carries an
// org, but it is harmless to include unconditionally since org_id never
// equals the empty string for a real org row.
func (c *Catalog) PathsForPackageScoped(ctx context.Context, ecosystem, pkg string, version string, identity model.Identity) ([]string, error) {
	query := `SELECT lance_path FROM dl_data_file WHERE ecosystem = ? AND package = ?`
	args := []interface{}{ecosystem, pkg}
	if version != "" {
		query += ` AND version = ?`
		args = append(args, version)
	}
	if identity.IsAuthenticated() {
		query += ` AND (visibility = 'public' OR (visibility = 'team' AND org_id = ?) OR (visibility = 'private' AND owner_sub = ?))`
		args = append(args, identity.OrgID, identity.Subject)
	} else {
		query += ` AND visibility = 'public'`
	}

	rows, err := c.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "listing catalog paths for %s/%s", ecosystem, pkg)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, zerrors.Wrap(zerrors.Io, err, "scanning catalog row")
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}
