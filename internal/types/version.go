package types

import "time"

// Version identifies a simulator build referenced by sessions and
// mechanics. CreatedAt records when the version was first seen.
type Version struct {
	VersionID string     `gorm:"primaryKey;column:version_id" json:"version_id"`
	CreatedAt time.Time  `gorm:"not null;column:created_at" json:"created_at"`
	Sessions  []Session  `gorm:"foreignKey:VersionID;references:VersionID" json:"-"`
	Mechanics []Mechanic `gorm:"foreignKey:VersionID;references:VersionID" json:"-"`
}

func (Version) TableName() string { return "versions" }
