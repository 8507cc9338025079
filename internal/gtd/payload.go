package gtd

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/terzigolu/gtd-go/pkg/models"
)

// Optional is a field that remembers whether its key appeared in the raw
// payload. Set=false means the key was absent; Set=true with Valid=false
// means an explicit null. The distinction drives the presence-sensitive
// update rules: absent leaves a relation untouched, null clears it.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// NameRef is a name-only descriptor for an embedded sub-entity; the
// reconciler resolves it to a concrete owned row.
type NameRef struct {
	Name string `json:"name"`
}

// Date accepts bare calendar dates ("2023-03-15") as well as full RFC 3339
// timestamps, since clients send both.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// TaskCreate is the create-path payload. At create time an absent key and an
// explicit null mean the same thing, so plain pointers are enough.
type TaskCreate struct {
	Name      string           `json:"name"`
	Done      bool             `json:"done"`
	Focus     bool             `json:"focus"`
	Readiness models.Readiness `json:"readiness"`

	DueDate  *Date      `json:"due_date"`
	Reminder *time.Time `json:"reminder"`
	Notes    *string    `json:"notes"`

	WaitingForPerson *NameRef   `json:"waiting_for_person"`
	WaitingForTime   *time.Time `json:"waiting_for_time"`

	Place   *NameRef `json:"place"`
	Area    *NameRef `json:"area"`
	Project *NameRef `json:"project"`

	SimpleTags []NameRef `json:"simpletags"`
	Persons    []NameRef `json:"persons"`
}

// TaskUpdate is the partial-update payload. Every relation key is
// presence-sensitive; the list keys use slice pointers because a present
// empty list replaces (clears) the whole association set while an absent key
// leaves it alone.
type TaskUpdate struct {
	Name      Optional[string]           `json:"name"`
	Done      Optional[bool]             `json:"done"`
	Focus     Optional[bool]             `json:"focus"`
	Readiness Optional[models.Readiness] `json:"readiness"`

	DueDate  Optional[Date]      `json:"due_date"`
	Reminder Optional[time.Time] `json:"reminder"`
	Notes    Optional[string]    `json:"notes"`

	WaitingForPerson Optional[NameRef]   `json:"waiting_for_person"`
	WaitingForTime   Optional[time.Time] `json:"waiting_for_time"`

	Place   Optional[NameRef] `json:"place"`
	Area    Optional[NameRef] `json:"area"`
	Project Optional[NameRef] `json:"project"`

	SimpleTags *[]NameRef `json:"simpletags"`
	Persons    *[]NameRef `json:"persons"`
}

// EntityCreate is the payload for the taggable kinds. Project additionally
// accepts an area descriptor.
type EntityCreate struct {
	Name string   `json:"name"`
	Area *NameRef `json:"area"`
}

// EntityUpdate renames an entity; for Project the area key is
// presence-sensitive like the task relations.
type EntityUpdate struct {
	Name Optional[string]  `json:"name"`
	Area Optional[NameRef] `json:"area"`
}
