package types

import "gorm.io/datatypes"

// MechanicEvent is a mechanic-level event emitted during the
// playthrough, keyed by its client-assigned event_id.
type MechanicEvent struct {
	EventID    string         `gorm:"primaryKey;column:event_id" json:"event_id"`
	SessionID  string         `gorm:"not null;column:session_id;index:idx_events_session" json:"session_id"`
	MechanicID *string        `gorm:"column:mechanic_id" json:"mechanic_id"`
	EventType  *string        `gorm:"column:event_type" json:"event_type"`
	Timestamp  *int64         `gorm:"column:timestamp" json:"timestamp"`
	Payload    datatypes.JSON `gorm:"column:payload" json:"payload"`
}

func (MechanicEvent) TableName() string { return "mechanic_events" }
