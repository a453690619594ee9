package types

import "time"

// Session is the root entity: denormalized metadata plus the submitted
// document retained verbatim so GET /sessions/:id can return the exact
// bytes the client sent.
type Session struct {
	SessionID string    `gorm:"primaryKey;column:session_id" json:"session_id"`
	UserID    *string   `gorm:"column:user_id" json:"user_id"`
	VersionID *string   `gorm:"column:version_id" json:"version_id"`
	StartTime *string   `gorm:"column:start_time" json:"start_time"`
	EndTime   *string   `gorm:"column:end_time" json:"end_time"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	Payload   string    `gorm:"type:text;not null;column:payload" json:"-"`

	// Child tables, declared here so the foreign keys (and their
	// ON DELETE CASCADE) are generated on the child side.
	Decisions        []ExplicitDecision   `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	ExpectedActions  []ExpectedAction     `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	CanonicalActions []CanonicalAction    `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	MechanicEvents   []MechanicEvent      `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Comparisons      []Comparison         `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	ProcessLogs      []ProcessLog         `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	PlayerActions    []PlayerAction       `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Stakeholders     []SessionStakeholder `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	States           []SessionState       `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Reports          []Report             `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Session) TableName() string { return "sessions" }

// SessionSummary is the listing projection of a session (everything but
// the payload).
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	UserID    *string   `json:"user_id"`
	VersionID *string   `json:"version_id"`
	StartTime *string   `json:"start_time"`
	EndTime   *string   `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary strips the payload and relations off a session row.
func (s *Session) Summary() *SessionSummary {
	return &SessionSummary{
		SessionID: s.SessionID,
		UserID:    s.UserID,
		VersionID: s.VersionID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		CreatedAt: s.CreatedAt,
	}
}
