package types

import "gorm.io/datatypes"

// ProcessLog traces the resolution of one decision node (wall-clock
// timing plus the low-level events seen while the node was open).
// Append-only.
type ProcessLog struct {
	ProcessLogID  int64          `gorm:"primaryKey;autoIncrement;column:process_log_id" json:"process_log_id"`
	SessionID     string         `gorm:"not null;column:session_id;index:idx_process_session" json:"session_id"`
	NodeID        *string        `gorm:"column:node_id" json:"node_id"`
	StartTime     *float64       `gorm:"column:start_time" json:"start_time"`
	EndTime       *float64       `gorm:"column:end_time" json:"end_time"`
	TotalDuration *float64       `gorm:"column:total_duration" json:"total_duration"`
	FinalChoice   *string        `gorm:"column:final_choice" json:"final_choice"`
	Events        datatypes.JSON `gorm:"column:events" json:"events"`
}

func (ProcessLog) TableName() string { return "process_logs" }
