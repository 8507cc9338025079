package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Readiness is the GTD bucket a task sits in.
type Readiness string

const (
	ReadinessInbox    Readiness = "inbox"
	ReadinessAnytime  Readiness = "anytime"
	ReadinessWaiting  Readiness = "waiting"
	ReadinessSometime Readiness = "sometime"
)

// Valid reports whether r is one of the four allowed buckets.
func (r Readiness) Valid() bool {
	switch r {
	case ReadinessInbox, ReadinessAnytime, ReadinessWaiting, ReadinessSometime:
		return true
	}
	return false
}

// Task is the central record. It shares the owned-name shape with the
// taggable kinds, so the ownership guard treats all six kinds uniformly.
//
// done, focus and overdue are independent flags rather than one exclusive
// state; overdue and (partly) focus are driven by the cron sweeps.
type Task struct {
	OwnedName
	Done      bool      `json:"done" gorm:"not null"`
	Focus     bool      `json:"focus" gorm:"not null"`
	Overdue   bool      `json:"overdue" gorm:"not null"`
	Readiness Readiness `json:"readiness" gorm:"not null;type:varchar(20)"`

	DueDate      *datatypes.Date `json:"due_date"`
	SetFocusDate *datatypes.Date `json:"set_focus_date"`
	Reminder     *time.Time      `json:"reminder"`

	WaitingForPersonID *uuid.UUID `json:"-" gorm:"type:uuid"`
	WaitingForPerson   *Person    `json:"waiting_for_person" gorm:"foreignKey:WaitingForPersonID;constraint:OnDelete:SET NULL"`
	WaitingForTime     *time.Time `json:"waiting_for_time"`

	SimpleTags []*SimpleTag `json:"simpletags" gorm:"many2many:task_simpletags"`
	Persons    []*Person    `json:"persons" gorm:"many2many:task_persons"`

	PlaceID   *uuid.UUID `json:"-" gorm:"type:uuid"`
	Place     *Place     `json:"place" gorm:"foreignKey:PlaceID;constraint:OnDelete:SET NULL"`
	AreaID    *uuid.UUID `json:"-" gorm:"type:uuid"`
	Area      *Area      `json:"area" gorm:"foreignKey:AreaID;constraint:OnDelete:SET NULL"`
	ProjectID *uuid.UUID `json:"-" gorm:"type:uuid"`
	Project   *Project   `json:"project" gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`

	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
