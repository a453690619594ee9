package types

import "gorm.io/datatypes"

// SessionState is the final snapshot of a playthrough: the stakeholder
// list and the global state, both kept opaque. One row per session.
type SessionState struct {
	SessionID    string         `gorm:"primaryKey;column:session_id" json:"session_id"`
	Stakeholders datatypes.JSON `gorm:"column:stakeholders" json:"stakeholders"`
	GlobalState  datatypes.JSON `gorm:"column:global_state" json:"global_state"`
}

func (SessionState) TableName() string { return "session_state" }
