package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/types"
)

// DerivedRepo persists the flattened children of a session. Append-only
// tables (decisions, comparisons, process logs, player actions) are
// cleared and reinserted per normalization pass; unique-id children are
// upserted on their natural key.
type DerivedRepo interface {
	DeleteForSession(ctx context.Context, tx *gorm.DB, sessionID string) error

	InsertDecisions(ctx context.Context, tx *gorm.DB, rows []*types.ExplicitDecision) error
	UpsertExpectedActions(ctx context.Context, tx *gorm.DB, rows []*types.ExpectedAction) error
	UpsertCanonicalActions(ctx context.Context, tx *gorm.DB, rows []*types.CanonicalAction) error
	UpsertMechanicEvents(ctx context.Context, tx *gorm.DB, rows []*types.MechanicEvent) error
	InsertComparisons(ctx context.Context, tx *gorm.DB, rows []*types.Comparison) error
	InsertProcessLogs(ctx context.Context, tx *gorm.DB, rows []*types.ProcessLog) error
	InsertPlayerActions(ctx context.Context, tx *gorm.DB, rows []*types.PlayerAction) error
	UpsertSessionState(ctx context.Context, tx *gorm.DB, state *types.SessionState) error
	UpsertSessionStakeholders(ctx context.Context, tx *gorm.DB, rows []*types.SessionStakeholder) error

	GetNormalized(ctx context.Context, tx *gorm.DB, summary *types.SessionSummary) (*types.NormalizedSession, error)
}

type derivedRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDerivedRepo(db *gorm.DB, baseLog *logger.Logger) DerivedRepo {
	return &derivedRepo{db: db, log: baseLog.With("repo", "DerivedRepo")}
}

func (dr *derivedRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return dr.db
}

// DeleteForSession clears every derived row of the session. Comparisons
// go first: they reference expected and canonical actions, which cannot
// be deleted while still referenced.
func (dr *derivedRepo) DeleteForSession(ctx context.Context, tx *gorm.DB, sessionID string) error {
	h := dr.handle(tx).WithContext(ctx)
	for _, model := range []interface{}{
		&types.Comparison{},
		&types.ExplicitDecision{},
		&types.ExpectedAction{},
		&types.CanonicalAction{},
		&types.MechanicEvent{},
		&types.ProcessLog{},
		&types.PlayerAction{},
		&types.SessionState{},
		&types.SessionStakeholder{},
	} {
		if err := h.Where("session_id = ?", sessionID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (dr *derivedRepo) InsertDecisions(ctx context.Context, tx *gorm.DB, rows []*types.ExplicitDecision) error {
	if len(rows) == 0 {
		return nil
	}
	return dr.handle(tx).WithContext(ctx).Create(&rows).Error
}

func (dr *derivedRepo) UpsertExpectedActions(ctx context.Context, tx *gorm.DB, rows []*types.ExpectedAction) error {
	if len(rows) == 0 {
		return nil
	}
	return dr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "expected_action_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"session_id",
				"source_node_id",
				"source_option_id",
				"action_type",
				"target_ref",
				"constraints",
				"rule_id",
				"created_at",
				"mechanic_id",
			}),
		}).
		Create(&rows).Error
}

func (dr *derivedRepo) UpsertCanonicalActions(ctx context.Context, tx *gorm.DB, rows []*types.CanonicalAction) error {
	if len(rows) == 0 {
		return nil
	}
	return dr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "canonical_action_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"session_id",
				"mechanic_id",
				"action_type",
				"target_ref",
				"value_final",
				"committed_at",
				"context",
			}),
		}).
		Create(&rows).Error
}

func (dr *derivedRepo) UpsertMechanicEvents(ctx context.Context, tx *gorm.DB, rows []*types.MechanicEvent) error {
	if len(rows) == 0 {
		return nil
	}
	return dr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"session_id",
				"mechanic_id",
				"event_type",
				"timestamp",
				"payload",
			}),
		}).
		Create(&rows).Error
}

func (dr *derivedRepo) InsertComparisons(ctx context.Context, tx *gorm.DB, rows []*types.Comparison) error {
	if len(rows) == 0 {
		return nil
	}
	return dr.handle(tx).WithContext(ctx).Create(&rows).Error
}

func (dr *derivedRepo) InsertProcessLogs(ctx context.Context, tx *gorm.DB, rows []*types.ProcessLog) error {
	if len(rows) == 0 {
		return nil
	}
	return dr.handle(tx).WithContext(ctx).Create(&rows).Error
}

func (dr *derivedRepo) InsertPlayerActions(ctx context.Context, tx *gorm.DB, rows []*types.PlayerAction) error {
	if len(rows) == 0 {
		return nil
	}
	return dr.handle(tx).WithContext(ctx).Create(&rows).Error
}

func (dr *derivedRepo) UpsertSessionState(ctx context.Context, tx *gorm.DB, state *types.SessionState) error {
	if state == nil {
		return nil
	}
	return dr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stakeholders",
				"global_state",
			}),
		}).
		Create(state).Error
}

func (dr *derivedRepo) UpsertSessionStakeholders(ctx context.Context, tx *gorm.DB, rows []*types.SessionStakeholder) error {
	if len(rows) == 0 {
		return nil
	}
	return dr.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "stakeholder_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"state",
			}),
		}).
		Create(&rows).Error
}

// GetNormalized assembles the composite relational view for the given
// session summary. Lists come back empty, never null.
func (dr *derivedRepo) GetNormalized(ctx context.Context, tx *gorm.DB, summary *types.SessionSummary) (*types.NormalizedSession, error) {
	h := dr.handle(tx).WithContext(ctx)
	sessionID := summary.SessionID

	view := &types.NormalizedSession{
		Session:             summary,
		ExplicitDecisions:   make([]*types.ExplicitDecision, 0),
		ExpectedActions:     make([]*types.ExpectedAction, 0),
		CanonicalActions:    make([]*types.CanonicalAction, 0),
		MechanicEvents:      make([]*types.MechanicEvent, 0),
		Comparisons:         make([]*types.Comparison, 0),
		ProcessLogs:         make([]*types.ProcessLog, 0),
		PlayerActionsLog:    make([]*types.PlayerAction, 0),
		SessionStakeholders: make([]*types.SessionStakeholder, 0),
	}

	if err := h.Where("session_id = ?", sessionID).Find(&view.ExplicitDecisions).Error; err != nil {
		return nil, err
	}
	if err := h.Where("session_id = ?", sessionID).Find(&view.ExpectedActions).Error; err != nil {
		return nil, err
	}
	if err := h.Where("session_id = ?", sessionID).Find(&view.CanonicalActions).Error; err != nil {
		return nil, err
	}
	if err := h.Where("session_id = ?", sessionID).Find(&view.MechanicEvents).Error; err != nil {
		return nil, err
	}
	if err := h.Where("session_id = ?", sessionID).Find(&view.Comparisons).Error; err != nil {
		return nil, err
	}
	if err := h.Where("session_id = ?", sessionID).Find(&view.ProcessLogs).Error; err != nil {
		return nil, err
	}
	if err := h.Where("session_id = ?", sessionID).Find(&view.PlayerActionsLog).Error; err != nil {
		return nil, err
	}
	if err := h.Where("session_id = ?", sessionID).Find(&view.SessionStakeholders).Error; err != nil {
		return nil, err
	}

	var state types.SessionState
	err := h.Where("session_id = ?", sessionID).First(&state).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		view.SessionState = nil
	case err != nil:
		return nil, err
	default:
		view.SessionState = &state
	}

	return view, nil
}
