// Package audit implements the operations log side of spec §4.5: one
// append-only JSONL file per session (the "trail"), independent of the
// relational audit_log table statestore.AuditStore owns. A mutation writes
// to both: the audit_log row is the queryable record, the trail line is
// the replayable one.
package audit

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/zenith-dev/zenith/internal/codec"
	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
)

// Writer appends TrailOperations. AppendValidated additionally checks the
// operation against a schema before writing; validation failures are
// logged, not returned, since the relational store (not the trail) is the
// canonical source of truth (spec §4.5).
type Writer interface {
	Append(op model.TrailOperation) error
	AppendValidated(op model.TrailOperation, registry SchemaRegistry) error
	Close() error
}

// FileWriter is the real, file-backed Writer: one JSONL file per session
// under dir, serialized with an in-process mutex the way the teacher
// guards its sqlite storage structs (job_storage.go, document_storage.go)
// with sync.Mutex rather than an OS-level file lock — no file-locking
// library exists anywhere in the retrieval pack, and Zenith's trail writer
// is never shared across processes (spec §5: "neither Send nor shared
// across tasks").
type FileWriter struct {
	mu     sync.Mutex
	path   string
	logger arbor.ILogger
}

// NewFileWriter returns a Writer appending to "<dir>/<sessionID>.jsonl".
func NewFileWriter(dir, sessionID string, logger arbor.ILogger) *FileWriter {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &FileWriter{
		path:   filepath.Join(dir, sessionID+".jsonl"),
		logger: logger,
	}
}

func (w *FileWriter) Append(op model.TrailOperation) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	op.V = model.TrailEnvelopeVersion
	if op.TS == 0 {
		op.TS = time.Now().UTC().UnixMilli()
	}
	return codec.AppendJSONLFile(w.path, op)
}

// AppendValidated validates op against registry before writing. A
// validation failure is logged as a warning and the write proceeds
// anyway: schemas evolve faster than the trail format should block on
// them (spec §4.5).
func (w *FileWriter) AppendValidated(op model.TrailOperation, registry SchemaRegistry) error {
	if registry != nil {
		if err := registry.Validate(op); err != nil {
			w.logger.Warn().Err(err).Str("op", op.Op).Str("entity", string(op.Entity)).Msg("trail operation failed schema validation")
		}
	}
	return w.Append(op)
}

func (w *FileWriter) Close() error { return nil }

// Path returns the file this writer appends to, mainly for tests and for
// the rebuild walker to enumerate.
func (w *FileWriter) Path() string { return w.path }

// NoopWriter is the disabled() variant: every call succeeds without
// touching disk, for deployments that turn the trail off entirely.
type NoopWriter struct{}

func (NoopWriter) Append(model.TrailOperation) error                         { return nil }
func (NoopWriter) AppendValidated(model.TrailOperation, SchemaRegistry) error { return nil }
func (NoopWriter) Close() error                                              { return nil }

var _ Writer = (*FileWriter)(nil)
var _ Writer = NoopWriter{}

// SessionFilePath mirrors FileWriter's own naming rule, exposed so
// rebuild/replay callers that didn't construct the writer can still find
// a session's file.
func SessionFilePath(dir, sessionID string) string {
	return filepath.Join(dir, sessionID+".jsonl")
}

func sessionIDFromFilename(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
