package types

import "gorm.io/datatypes"

// ExpectedAction is a rule-predicted action derived from a decision,
// keyed by its client-assigned expected_action_id.
type ExpectedAction struct {
	ExpectedActionID string         `gorm:"primaryKey;column:expected_action_id" json:"expected_action_id"`
	SessionID        string         `gorm:"not null;column:session_id;index:idx_expected_session" json:"session_id"`
	SourceNodeID     *string        `gorm:"column:source_node_id" json:"source_node_id"`
	SourceOptionID   *string        `gorm:"column:source_option_id" json:"source_option_id"`
	ActionType       *string        `gorm:"column:action_type" json:"action_type"`
	TargetRef        *string        `gorm:"column:target_ref" json:"target_ref"`
	Constraints      datatypes.JSON `gorm:"column:constraints" json:"constraints"`
	RuleID           *string        `gorm:"column:rule_id" json:"rule_id"`
	CreatedAt        *int64         `gorm:"column:created_at;autoCreateTime:false" json:"created_at"`
	MechanicID       *string        `gorm:"column:mechanic_id" json:"mechanic_id"`
	Comparisons      []Comparison   `gorm:"foreignKey:ExpectedActionID;references:ExpectedActionID" json:"-"`
}

func (ExpectedAction) TableName() string { return "expected_actions" }
