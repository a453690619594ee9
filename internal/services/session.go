package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/repos"
	"github.com/decisionlab/simulator-backend/internal/types"
)

// SessionCounts pairs a session id with its normalization counts, used
// by bulk re-normalization results.
type SessionCounts struct {
	SessionID string `json:"session_id"`
	Counts    Counts `json:"counts"`
}

type SessionService interface {
	// Ingest parses and normalizes a submitted document in one
	// transaction, returning the session id and per-table counts.
	Ingest(ctx context.Context, raw []byte) (string, Counts, error)
	// Renormalize re-runs normalization for one stored session from its
	// retained payload.
	Renormalize(ctx context.Context, sessionID string) (Counts, error)
	// RenormalizeAll re-runs normalization for every stored session
	// inside a single transaction: one failure rolls back the batch.
	RenormalizeAll(ctx context.Context) ([]*SessionCounts, error)

	List(ctx context.Context, limit int) ([]*types.SessionSummary, error)
	GetRaw(ctx context.Context, sessionID string) ([]byte, error)
	GetNormalized(ctx context.Context, sessionID string) (*types.NormalizedSession, error)
	Latest(ctx context.Context) (*types.SessionSummary, error)
	LatestNormalized(ctx context.Context) (*types.NormalizedSession, error)
}

type sessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.SessionRepo
	refRepo     repos.ReferenceRepo
	derivedRepo repos.DerivedRepo
}

func NewSessionService(db *gorm.DB, log *logger.Logger, sessionRepo repos.SessionRepo, refRepo repos.ReferenceRepo, derivedRepo repos.DerivedRepo) SessionService {
	return &sessionService{
		db:          db,
		log:         log.With("service", "SessionService"),
		sessionRepo: sessionRepo,
		refRepo:     refRepo,
		derivedRepo: derivedRepo,
	}
}

func (ss *sessionService) Ingest(ctx context.Context, raw []byte) (string, Counts, error) {
	var doc types.SessionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", Counts{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	sessionID, ok := doc.SessionMetadata.SessionID.Value()
	if !ok || sessionID == "" {
		return "", Counts{}, ErrMissingSessionID
	}

	rs := NormalizeSession(sessionID, &doc, raw, time.Now().UTC())
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ss.applyRowSet(ctx, tx, rs)
	}); err != nil {
		ss.log.Warn("Ingest transaction failed", "session_id", sessionID, "error", err)
		return "", Counts{}, err
	}
	ss.log.Info("Session ingested", "session_id", sessionID, "explicit_decisions", rs.Counts.ExplicitDecisions, "canonical_actions", rs.Counts.CanonicalActions)
	return sessionID, rs.Counts, nil
}

func (ss *sessionService) Renormalize(ctx context.Context, sessionID string) (Counts, error) {
	session, err := ss.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		return Counts{}, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return Counts{}, ErrSessionNotFound
	}

	var counts Counts
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := ss.renormalizeStored(ctx, tx, session)
		if err != nil {
			return err
		}
		counts = c
		return nil
	}); err != nil {
		ss.log.Warn("Renormalize transaction failed", "session_id", sessionID, "error", err)
		return Counts{}, err
	}
	return counts, nil
}

func (ss *sessionService) RenormalizeAll(ctx context.Context) ([]*SessionCounts, error) {
	results := make([]*SessionCounts, 0)
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessions, err := ss.sessionRepo.GetAll(ctx, tx)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		for _, session := range sessions {
			counts, err := ss.renormalizeStored(ctx, tx, session)
			if err != nil {
				return fmt.Errorf("session %s: %w", session.SessionID, err)
			}
			results = append(results, &SessionCounts{SessionID: session.SessionID, Counts: counts})
		}
		return nil
	}); err != nil {
		ss.log.Warn("Bulk renormalize failed", "error", err)
		return nil, err
	}
	ss.log.Info("Bulk renormalize complete", "processed", len(results))
	return results, nil
}

// renormalizeStored re-parses a stored payload and applies the
// resulting rows on the given transaction, preserving the original
// created_at stamp.
func (ss *sessionService) renormalizeStored(ctx context.Context, tx *gorm.DB, session *types.Session) (Counts, error) {
	var doc types.SessionDocument
	if err := json.Unmarshal([]byte(session.Payload), &doc); err != nil {
		return Counts{}, fmt.Errorf("parse stored payload: %w", err)
	}
	rs := NormalizeSession(session.SessionID, &doc, []byte(session.Payload), session.CreatedAt)
	if err := ss.applyRowSet(ctx, tx, rs); err != nil {
		return Counts{}, err
	}
	return rs.Counts, nil
}

// applyRowSet writes one session's RowSet: reference entities first so
// foreign keys resolve, the session upsert, then delete-and-rebuild of
// the derived rows.
func (ss *sessionService) applyRowSet(ctx context.Context, tx *gorm.DB, rs *RowSet) error {
	if err := ss.refRepo.EnsureUsers(ctx, tx, rs.Users); err != nil {
		return fmt.Errorf("ensure users: %w", err)
	}
	if err := ss.refRepo.EnsureVersions(ctx, tx, rs.Versions); err != nil {
		return fmt.Errorf("ensure versions: %w", err)
	}
	if err := ss.refRepo.EnsureMechanics(ctx, tx, rs.Mechanics); err != nil {
		return fmt.Errorf("ensure mechanics: %w", err)
	}
	if err := ss.refRepo.EnsureStakeholders(ctx, tx, rs.Stakeholders); err != nil {
		return fmt.Errorf("ensure stakeholders: %w", err)
	}

	if err := ss.sessionRepo.Upsert(ctx, tx, rs.Session); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	if err := ss.derivedRepo.DeleteForSession(ctx, tx, rs.Session.SessionID); err != nil {
		return fmt.Errorf("clear derived rows: %w", err)
	}

	if err := ss.derivedRepo.InsertDecisions(ctx, tx, rs.ExplicitDecisions); err != nil {
		return fmt.Errorf("insert explicit decisions: %w", err)
	}
	if err := ss.derivedRepo.UpsertExpectedActions(ctx, tx, rs.ExpectedActions); err != nil {
		return fmt.Errorf("upsert expected actions: %w", err)
	}
	if err := ss.derivedRepo.UpsertCanonicalActions(ctx, tx, rs.CanonicalActions); err != nil {
		return fmt.Errorf("upsert canonical actions: %w", err)
	}
	if err := ss.derivedRepo.UpsertMechanicEvents(ctx, tx, rs.MechanicEvents); err != nil {
		return fmt.Errorf("upsert mechanic events: %w", err)
	}
	if err := ss.derivedRepo.InsertComparisons(ctx, tx, rs.Comparisons); err != nil {
		return fmt.Errorf("insert comparisons: %w", err)
	}
	if err := ss.derivedRepo.InsertProcessLogs(ctx, tx, rs.ProcessLogs); err != nil {
		return fmt.Errorf("insert process logs: %w", err)
	}
	if err := ss.derivedRepo.InsertPlayerActions(ctx, tx, rs.PlayerActions); err != nil {
		return fmt.Errorf("insert player actions: %w", err)
	}
	if err := ss.derivedRepo.UpsertSessionState(ctx, tx, rs.SessionState); err != nil {
		return fmt.Errorf("upsert session state: %w", err)
	}
	if err := ss.derivedRepo.UpsertSessionStakeholders(ctx, tx, rs.SessionStakeholders); err != nil {
		return fmt.Errorf("upsert session stakeholders: %w", err)
	}
	return nil
}

func (ss *sessionService) List(ctx context.Context, limit int) ([]*types.SessionSummary, error) {
	return ss.sessionRepo.List(ctx, nil, limit)
}

func (ss *sessionService) GetRaw(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := ss.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return []byte(session.Payload), nil
}

func (ss *sessionService) GetNormalized(ctx context.Context, sessionID string) (*types.NormalizedSession, error) {
	session, err := ss.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return ss.derivedRepo.GetNormalized(ctx, nil, session.Summary())
}

func (ss *sessionService) Latest(ctx context.Context) (*types.SessionSummary, error) {
	session, err := ss.sessionRepo.Latest(ctx, nil)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session.Summary(), nil
}

func (ss *sessionService) LatestNormalized(ctx context.Context) (*types.NormalizedSession, error) {
	session, err := ss.sessionRepo.Latest(ctx, nil)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return ss.derivedRepo.GetNormalized(ctx, nil, session.Summary())
}
