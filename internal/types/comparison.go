package types

import "gorm.io/datatypes"

// Comparison pairs an expected action with the canonical action that
// the mechanics actually committed, recording the outcome and any
// deviation. Append-only.
type Comparison struct {
	ComparisonID      int64          `gorm:"primaryKey;autoIncrement;column:comparison_id" json:"comparison_id"`
	SessionID         string         `gorm:"not null;column:session_id;index:idx_comparisons_session" json:"session_id"`
	ExpectedActionID  *string        `gorm:"column:expected_action_id" json:"expected_action_id"`
	CanonicalActionID *string        `gorm:"column:canonical_action_id" json:"canonical_action_id"`
	Outcome           *string        `gorm:"column:outcome" json:"outcome"`
	Deviation         datatypes.JSON `gorm:"column:deviation" json:"deviation"`
}

func (Comparison) TableName() string { return "comparisons" }
