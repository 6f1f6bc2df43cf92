package model

// CatalogVisibility is the catalog-level visibility of an indexed dataset
// (distinct from the source-level Visibility of a ParsedItem). It gates
// which callers can discover a package's indexed data via the catalog
// (spec §4.6).
type CatalogVisibility string

const (
	VisibilityPublic  CatalogVisibility = "public"
	VisibilityTeam    CatalogVisibility = "team"
	VisibilityPrivate CatalogVisibility = "private"
)

// DataFile is one row of the catalog (dl_data_file): a registered,
// versioned dataset location for one (ecosystem, package, version) tuple
// (spec §4.6, §C supplement zen-db/src/repos/catalog.rs).
type DataFile struct {
	SnapshotID string            `json:"snapshot_id"`
	Ecosystem  string            `json:"ecosystem"`
	Package    string            `json:"package"`
	Version    string            `json:"version"`
	LancePath  string            `json:"lance_path"` // stand-in name kept from original_source; a Lake export path here
	OrgID      string            `json:"org_id,omitempty"`
	OwnerSub   string            `json:"owner_sub,omitempty"`
	Visibility CatalogVisibility `json:"visibility"`
}

// VisibleTo reports whether this DataFile is visible to the given identity,
// matching the catalog's visibility filter (spec §4.6):
//   - Public is visible to everyone, identity or not.
//   - Team is visible to any identity sharing OrgID.
//   - Private is visible only to the identity whose Subject matches OwnerSub.
func (d DataFile) VisibleTo(id Identity) bool {
	switch d.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityTeam:
		return id.OrgID != "" && id.OrgID == d.OrgID
	case VisibilityPrivate:
		return id.IsAuthenticated() && id.Subject == d.OwnerSub
	default:
		return false
	}
}
