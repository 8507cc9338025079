package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the owning principal for every other record. Authentication happens
// upstream of the core; the service layer only ever sees the user id.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username  string    `json:"username" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AuthToken maps an opaque token key to its user. The API middleware does the
// lookup; the core never touches it.
type AuthToken struct {
	Key       string    `json:"key" gorm:"primaryKey;type:varchar(64)"`
	UserID    uuid.UUID `json:"user_id" gorm:"not null;type:uuid;index"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
