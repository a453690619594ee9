package types

import "gorm.io/datatypes"

// Stakeholder is the registry row for a simulated agent. The id is
// resolved from the document's final-state entry (id, falling back to
// shortId, falling back to name).
type Stakeholder struct {
	StakeholderID string               `gorm:"primaryKey;column:stakeholder_id" json:"stakeholder_id"`
	Name          *string              `gorm:"column:name" json:"name"`
	Role          *string              `gorm:"column:role" json:"role"`
	SessionLinks  []SessionStakeholder `gorm:"foreignKey:StakeholderID;references:StakeholderID" json:"-"`
}

func (Stakeholder) TableName() string { return "stakeholders" }

// SessionStakeholder is the per-session state snapshot of one
// stakeholder, upserted by (session_id, stakeholder_id).
type SessionStakeholder struct {
	SessionID     string         `gorm:"primaryKey;column:session_id;index:idx_session_stakeholders_session" json:"session_id"`
	StakeholderID string         `gorm:"primaryKey;column:stakeholder_id" json:"stakeholder_id"`
	State         datatypes.JSON `gorm:"column:state" json:"state"`
}

func (SessionStakeholder) TableName() string { return "session_stakeholders" }
