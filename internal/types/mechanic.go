package types

// Mechanic is a game-rule subsystem referenced by canonical actions and
// mechanic events. Seeded on first sight, keyed to the simulator
// version that produced it.
type Mechanic struct {
	MechanicID string  `gorm:"primaryKey;column:mechanic_id" json:"mechanic_id"`
	VersionID  *string `gorm:"column:version_id" json:"version_id"`
}

func (Mechanic) TableName() string { return "mechanics" }
