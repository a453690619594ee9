package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/types"
)

type SessionRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, session *types.Session) error
	GetByID(ctx context.Context, tx *gorm.DB, sessionID string) (*types.Session, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Session, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.SessionSummary, error)
	Latest(ctx context.Context, tx *gorm.DB) (*types.Session, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (sr *sessionRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

// Upsert inserts the session row or, on session_id conflict, replaces
// every non-key field with the incoming values.
func (sr *sessionRepo) Upsert(ctx context.Context, tx *gorm.DB, session *types.Session) error {
	return sr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id",
				"version_id",
				"start_time",
				"end_time",
				"created_at",
				"payload",
			}),
		}).
		Create(session).Error
}

// GetByID returns the full session row, or nil when it does not exist.
func (sr *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, sessionID string) (*types.Session, error) {
	var session types.Session
	err := sr.handle(tx).WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (sr *sessionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Session, error) {
	sessions := make([]*types.Session, 0)
	if err := sr.handle(tx).WithContext(ctx).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (sr *sessionRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.SessionSummary, error) {
	summaries := make([]*types.SessionSummary, 0)
	if err := sr.handle(tx).WithContext(ctx).
		Model(&types.Session{}).
		Select("session_id", "user_id", "version_id", "start_time", "end_time", "created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// Latest returns the most recently created session, or nil on an empty
// store.
func (sr *sessionRepo) Latest(ctx context.Context, tx *gorm.DB) (*types.Session, error) {
	var session types.Session
	err := sr.handle(tx).WithContext(ctx).
		Order("created_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}
