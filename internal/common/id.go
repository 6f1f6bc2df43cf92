package common

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewEntityID generates a lowercase "<3-letter-prefix>-<8 hex chars>" ID, the
// canonical form for every Entity in the relational store (spec §3, §8.1).
// Callers always pass a 3-letter constant (see the model package's Kind
// prefixes).
func NewEntityID(prefix string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + id[:8]
}

// NewDocumentID generates a unique source-file/document ID with a "doc_"
// prefix, kept in the teacher's idiom (internal/common/id.go) for ids that
// are not Entity rows.
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// HashID computes the deterministic server-generated id used for
// ApiSymbolRow/DocChunkRow when the caller supplies no id: the first 16 hex
// characters of the md5 of the concatenated key fields (spec §3, §4.2,
// §4.3). Repeated ingestion of identical content yields the same id.
func HashID(keyFields ...string) string {
	sum := md5.Sum([]byte(strings.Join(keyFields, "")))
	return hex.EncodeToString(sum[:])[:16]
}

// NewSessionID generates a session identifier. Sessions are Entities too
// (kind prefix "ses") but this helper lives in common to avoid an import
// cycle between the model and statestore packages.
func NewSessionID() string {
	return NewEntityID("ses")
}
