package types

import "gorm.io/datatypes"

// CanonicalAction is the action actually committed by game mechanics,
// keyed by its client-assigned canonical_action_id.
type CanonicalAction struct {
	CanonicalActionID string         `gorm:"primaryKey;column:canonical_action_id" json:"canonical_action_id"`
	SessionID         string         `gorm:"not null;column:session_id;index:idx_canonical_session" json:"session_id"`
	MechanicID        *string        `gorm:"column:mechanic_id" json:"mechanic_id"`
	ActionType        *string        `gorm:"column:action_type" json:"action_type"`
	TargetRef         *string        `gorm:"column:target_ref" json:"target_ref"`
	ValueFinal        datatypes.JSON `gorm:"column:value_final" json:"value_final"`
	CommittedAt       *int64         `gorm:"column:committed_at" json:"committed_at"`
	Context           datatypes.JSON `gorm:"column:context" json:"context"`
	Comparisons       []Comparison   `gorm:"foreignKey:CanonicalActionID;references:CanonicalActionID" json:"-"`
}

func (CanonicalAction) TableName() string { return "canonical_actions" }
