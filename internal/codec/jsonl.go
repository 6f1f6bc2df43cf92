// Package codec implements Zenith's two on-disk file formats (spec §4.10):
// JSONL for the trail's per-session operations log, and a JSONL-framed
// stand-in for the columnar cloud export the lake writes per package
// version. No Arrow dependency exists anywhere in the retrieval pack, so
// the export format widens `embedding` to a fixed 384-length array and
// checks that invariant in Go rather than via a real Arrow schema.
package codec

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/zenith-dev/zenith/internal/zerrors"
)

// WriteJSONL appends one compact JSON object per line for every value in
// rows, in order. No third-party JSONL library exists anywhere in the
// retrieval pack (grep across every go.mod in _examples/ turns up none);
// bufio.Writer plus encoding/json is the universal Go idiom for this
// format and is how the teacher itself always serializes structs.
func WriteJSONL[T any](w io.Writer, rows []T) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return zerrors.Wrap(zerrors.Serialization, err, "encoding jsonl row")
		}
	}
	return bw.Flush()
}

// AppendJSONLFile opens path for append (creating it and any parent
// directory if needed) and writes one row as a single JSONL line.
func AppendJSONLFile[T any](path string, row T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "creating directory for %s", path)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerrors.Wrap(zerrors.Io, err, "opening %s for append", path)
	}
	defer f.Close()
	return WriteJSONL(f, []T{row})
}

// ReadJSONL reads every line of r as one JSON value of type T, in file
// order, matching Trail roundtrip's "read the file as JSONL, recover N
// equal operations" invariant (spec §8 scenario 8).
func ReadJSONL[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	var out []T
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, zerrors.Wrap(zerrors.Serialization, err, "decoding jsonl line")
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "scanning jsonl")
	}
	return out, nil
}

// ReadJSONLFile is ReadJSONL over a file at path.
func ReadJSONLFile[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "opening %s", path)
	}
	defer f.Close()
	return ReadJSONL[T](f)
}
