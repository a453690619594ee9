package types

import "gorm.io/datatypes"

// PlayerAction is one entry of the low-level input trace. Append-only.
type PlayerAction struct {
	PlayerActionID int64          `gorm:"primaryKey;autoIncrement;column:player_action_id" json:"player_action_id"`
	SessionID      string         `gorm:"not null;column:session_id;index:idx_player_session" json:"session_id"`
	Event          *string        `gorm:"column:event" json:"event"`
	Metadata       datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	Day            *int           `gorm:"column:day" json:"day"`
	TimeSlot       *string        `gorm:"column:time_slot" json:"time_slot"`
	Timestamp      *float64       `gorm:"column:timestamp" json:"timestamp"`
}

func (PlayerAction) TableName() string { return "player_actions_log" }
