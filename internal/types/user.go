package types

// User is a lightweight reference entity seeded on first sight of a
// user_id. Normalization never updates an existing row.
type User struct {
	UserID   string    `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name     *string   `gorm:"column:name" json:"name"`
	Sessions []Session `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

func (User) TableName() string { return "users" }
