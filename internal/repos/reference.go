package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/types"
)

// ReferenceRepo guarantees existence of the insert-once reference
// entities (users, versions, mechanics, stakeholders). Existing rows
// are never modified: every write is insert-or-do-nothing.
type ReferenceRepo interface {
	EnsureUsers(ctx context.Context, tx *gorm.DB, users []*types.User) error
	EnsureVersions(ctx context.Context, tx *gorm.DB, versions []*types.Version) error
	EnsureMechanics(ctx context.Context, tx *gorm.DB, mechanics []*types.Mechanic) error
	EnsureStakeholders(ctx context.Context, tx *gorm.DB, stakeholders []*types.Stakeholder) error
}

type referenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferenceRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceRepo {
	return &referenceRepo{db: db, log: baseLog.With("repo", "ReferenceRepo")}
}

func (rr *referenceRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return rr.db
}

func (rr *referenceRepo) EnsureUsers(ctx context.Context, tx *gorm.DB, users []*types.User) error {
	if len(users) == 0 {
		return nil
	}
	return rr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&users).Error
}

func (rr *referenceRepo) EnsureVersions(ctx context.Context, tx *gorm.DB, versions []*types.Version) error {
	if len(versions) == 0 {
		return nil
	}
	return rr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&versions).Error
}

func (rr *referenceRepo) EnsureMechanics(ctx context.Context, tx *gorm.DB, mechanics []*types.Mechanic) error {
	if len(mechanics) == 0 {
		return nil
	}
	return rr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&mechanics).Error
}

func (rr *referenceRepo) EnsureStakeholders(ctx context.Context, tx *gorm.DB, stakeholders []*types.Stakeholder) error {
	if len(stakeholders) == 0 {
		return nil
	}
	return rr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&stakeholders).Error
}
