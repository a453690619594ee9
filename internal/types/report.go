package types

import "gorm.io/datatypes"

// Report holds generated per-session report payloads. The ingestion
// API never writes this table; it exists for out-of-band tooling.
type Report struct {
	ReportID  int64          `gorm:"primaryKey;autoIncrement;column:report_id" json:"report_id"`
	SessionID string         `gorm:"not null;column:session_id" json:"session_id"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
}

func (Report) TableName() string { return "reports" }
