package model

import "time"

// Session is the top-level unit of work an Identity operates within (spec
// §3, §8 scenario S3). Every other entity may be scoped to one via
// EntityBase.SessionID.
type Session struct {
	EntityBase
	Status    SessionStatus `json:"status" validate:"required"`
	Summary   string        `json:"summary,omitempty"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
}

func (s *Session) CurrentStatus() string { return string(s.Status) }

func (s *Session) EntityStatus() string { return string(s.Status) }

func (s *Session) SearchText() string { return s.Summary }

func (s *Session) CanTransitionTo(next string) bool {
	return s.Status.CanTransitionTo(next)
}

// Reopen is the sole path from WrappedUp back to Active, reserved for the
// orphan-recovery flow: a prior session's summarization/sync step failed and
// a later session is resuming it (spec §3 note on reopen_after_sync_failure).
// It bypasses the normal transition table on purpose.
func (s *Session) Reopen() {
	s.Status = SessionActive
	s.EndedAt = nil
}
