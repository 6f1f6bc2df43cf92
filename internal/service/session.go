package service

import (
	"context"
	"time"

	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// StartSession creates a new Active session, first checking for and
// abandoning any orphaned Active session from a prior run (spec §3, S3:
// "Starting a new session while one is Active -> orphan detected and
// abandoned; new session is Active").
func (s *Service) StartSession(ctx context.Context) (*model.Session, error) {
	existing, err := s.Store.Sessions.List(ctx, s.Identity)
	if err != nil {
		return nil, err
	}
	for _, prior := range existing {
		if prior.Status == model.SessionActive {
			prior.Status = model.SessionAbandoned
			if err := UpdateEntity(ctx, s, s.Store.Sessions, model.EntitySession, prior, model.AuditStatusChanged); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now().UTC()
	sess := &model.Session{
		EntityBase: model.EntityBase{
			ID:        common.NewSessionID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Status: model.SessionActive,
	}
	if s.Identity.IsAuthenticated() && s.Identity.OrgID != "" {
		orgID := s.Identity.OrgID
		sess.OrgID = &orgID
	}
	if err := CreateEntity(ctx, s, s.Store.Sessions, model.EntitySession, sess); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, model.EntitySession, sess.ID, model.AuditSessionStart, OpCreate, nil)
	return sess, nil
}

// EndSession transitions sessionID from Active to WrappedUp, recording
// summary and EndedAt (spec §3, S3). Ending an already-ended session is
// InvalidState.
func (s *Service) EndSession(ctx context.Context, sessionID, summary string) (*model.Session, error) {
	sess, err := s.Store.Sessions.Get(ctx, sessionID, s.Identity)
	if err != nil {
		return nil, err
	}
	if !sess.CanTransitionTo(string(model.SessionWrappedUp)) {
		return nil, zerrors.New(zerrors.InvalidState, "session %s cannot transition from %s to %s", sessionID, sess.Status, model.SessionWrappedUp)
	}
	now := time.Now().UTC()
	sess.Status = model.SessionWrappedUp
	sess.Summary = summary
	sess.EndedAt = &now
	if err := UpdateEntity(ctx, s, s.Store.Sessions, model.EntitySession, sess, model.AuditStatusChanged); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, model.EntitySession, sess.ID, model.AuditSessionEnd, OpTransition, map[string]interface{}{"summary": summary})
	return sess, nil
}

// ReopenSession is the sole path from WrappedUp back to Active (spec §3's
// reopen_after_sync_failure), used when a later session needs to resume
// one whose wrap-up sync step failed.
func (s *Service) ReopenSession(ctx context.Context, sessionID string) (*model.Session, error) {
	sess, err := s.Store.Sessions.Get(ctx, sessionID, s.Identity)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.SessionWrappedUp {
		return nil, zerrors.New(zerrors.InvalidState, "session %s is %s, only WrappedUp sessions may be reopened", sessionID, sess.Status)
	}
	sess.Reopen()
	if err := UpdateEntity(ctx, s, s.Store.Sessions, model.EntitySession, sess, model.AuditStatusChanged); err != nil {
		return nil, err
	}
	return sess, nil
}

// ListSessions returns every session visible to the caller's identity.
func (s *Service) ListSessions(ctx context.Context) ([]*model.Session, error) {
	return s.Store.Sessions.List(ctx, s.Identity)
}
