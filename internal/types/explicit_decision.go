package types

import "gorm.io/datatypes"

// ExplicitDecision records a player choice at a narrative node.
// Append-only: rows are deleted and reinserted on every normalization
// pass.
type ExplicitDecision struct {
	DecisionID   int64          `gorm:"primaryKey;autoIncrement;column:decision_id" json:"decision_id"`
	SessionID    string         `gorm:"not null;column:session_id;index:idx_exp_decisions_session" json:"session_id"`
	NodeID       *string        `gorm:"column:node_id" json:"node_id"`
	OptionID     *string        `gorm:"column:option_id" json:"option_id"`
	OptionText   *string        `gorm:"column:option_text" json:"option_text"`
	Stakeholder  *string        `gorm:"column:stakeholder" json:"stakeholder"`
	Day          *int           `gorm:"column:day" json:"day"`
	TimeSlot     *string        `gorm:"column:time_slot" json:"time_slot"`
	Consequences datatypes.JSON `gorm:"column:consequences" json:"consequences"`
}

func (ExplicitDecision) TableName() string { return "explicit_decisions" }
