package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedName is the shape shared by every taggable kind and Project: owner
// scoping, a display name, and a soft-delete flag. Deactivation is one-way;
// nothing in the public API sets IsActive back to true on a stored row.
type OwnedName struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID   uuid.UUID `json:"-" gorm:"not null;type:uuid;index"`
	Name     string    `json:"name" gorm:"not null"`
	IsActive bool      `json:"is_active" gorm:"not null"`
}

func (o *OwnedName) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Init prepares a fresh record for its first insert.
func (o *OwnedName) Init(owner uuid.UUID, name string) {
	o.UserID = owner
	o.Name = name
	o.IsActive = true
}

func (o *OwnedName) Rename(name string) { o.Name = name }
func (o *OwnedName) Deactivate()        { o.IsActive = false }
func (o *OwnedName) Owner() uuid.UUID   { return o.UserID }
func (o *OwnedName) EntityName() string { return o.Name }
func (o *OwnedName) Active() bool       { return o.IsActive }

// OwnedNamed is the capability each concrete kind implements (via OwnedName)
// so that get-or-create, the ownership guard and disable can be written once.
type OwnedNamed interface {
	Init(owner uuid.UUID, name string)
	Rename(name string)
	Deactivate()
	Owner() uuid.UUID
	EntityName() string
	Active() bool
}

// SimpleTag is a free-form label. Duplicate names per owner are tolerated;
// get-or-create is what keeps them rare in practice.
type SimpleTag struct {
	OwnedName
}

// Person is someone a task can reference, either as a plain association or as
// the waiting-for party.
type Person struct {
	OwnedName
}

// Place is the only kind whose create/update endpoints reject a second active
// row with the same name for the same owner.
type Place struct {
	OwnedName
}

// Area groups tasks and projects into a sphere of responsibility.
type Area struct {
	OwnedName
}

// Project optionally belongs to an Area; tasks filed under the project
// inherit that area.
type Project struct {
	OwnedName
	AreaID *uuid.UUID `json:"-" gorm:"type:uuid"`
	Area   *Area      `json:"area" gorm:"foreignKey:AreaID;constraint:OnDelete:SET NULL"`
}
