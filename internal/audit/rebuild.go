package audit

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zenith-dev/zenith/internal/codec"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// Rebuild reads every session's trail file under dir and returns every
// TrailOperation merged and ordered by (ts, ses) ascending, matching spec
// §4.5's rebuild invariant: replaying this slice in order must recreate
// the entity set.
func Rebuild(dir string) ([]model.TrailOperation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "reading trail directory %s", dir)
	}

	var all []model.TrailOperation
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		ops, err := codec.ReadJSONLFile[model.TrailOperation](filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, zerrors.Wrap(zerrors.Io, err, "reading trail file %s", entry.Name())
		}
		all = append(all, ops...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].TS != all[j].TS {
			return all[i].TS < all[j].TS
		}
		return all[i].Ses < all[j].Ses
	})
	return all, nil
}

// Applier consumes one replayed TrailOperation, reconstructing whatever
// state it owns (the state store's entity set, a downstream projection,
// or a test double). Rebuild itself is storage-agnostic; callers supply
// the Applier that knows how to turn an operation back into a write.
type Applier interface {
	Apply(op model.TrailOperation) error
}

// Replay reads dir's trail files via Rebuild and feeds every operation to
// applier in (ts, ses) order, stopping at the first error.
func Replay(dir string, applier Applier) error {
	ops, err := Rebuild(dir)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err := applier.Apply(op); err != nil {
			return zerrors.Wrap(zerrors.Io, err, "replaying trail op %s for entity %s", op.Op, op.ID)
		}
	}
	return nil
}

// SessionIDs returns the session ids with a trail file under dir, derived
// from the "<sessionID>.jsonl" naming FileWriter uses.
func SessionIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "reading trail directory %s", dir)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		ids = append(ids, sessionIDFromFilename(entry.Name()))
	}
	return ids, nil
}
