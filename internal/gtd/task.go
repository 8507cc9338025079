package gtd

import (
	"strings"

	"github.com/google/uuid"
	"github.com/terzigolu/gtd-go/pkg/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateTask validates the payload, creates the task row and reconciles every
// embedded descriptor into a concrete owned entity. The whole operation is
// one transaction: a failed sub-step leaves no task and no orphan entities.
func (s *Service) CreateTask(userID uuid.UUID, in TaskCreate) (*models.Task, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	readiness := in.Readiness
	if readiness == "" {
		readiness = models.ReadinessInbox
	}
	ve := ValidationErrors{}
	if strings.TrimSpace(in.Name) == "" {
		ve.add("name", msgBlank)
	}
	if !readiness.Valid() {
		ve.add("readiness", msgInvalidChoice)
	}
	validateRef(ve, "waiting_for_person", in.WaitingForPerson)
	validateRef(ve, "place", in.Place)
	validateRef(ve, "area", in.Area)
	validateRef(ve, "project", in.Project)
	validateRefList(ve, "simpletags", in.SimpleTags)
	validateRefList(ve, "persons", in.Persons)
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	var taskID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		task := models.Task{
			Done:           in.Done,
			Focus:          in.Focus,
			Readiness:      readiness,
			Reminder:       in.Reminder,
			WaitingForTime: in.WaitingForTime,
			Notes:          in.Notes,
		}
		task.Init(userID, in.Name)
		if in.DueDate != nil {
			d := datatypes.Date(in.DueDate.Time)
			task.DueDate = &d
		}
		if in.WaitingForPerson != nil {
			person, err := getOrCreate[models.Person](tx, userID, in.WaitingForPerson.Name)
			if err != nil {
				return err
			}
			task.WaitingForPersonID = &person.ID
		}
		if in.Place != nil {
			place, err := getOrCreate[models.Place](tx, userID, in.Place.Name)
			if err != nil {
				return err
			}
			task.PlaceID = &place.ID
		}
		if in.Project != nil {
			proj, err := getOrCreate[models.Project](tx, userID, in.Project.Name)
			if err != nil {
				return err
			}
			task.ProjectID = &proj.ID
			// the project's area wins over a directly supplied one
			task.AreaID = proj.AreaID
		} else if in.Area != nil {
			area, err := getOrCreate[models.Area](tx, userID, in.Area.Name)
			if err != nil {
				return err
			}
			task.AreaID = &area.ID
		}
		if err := tx.Omit(clause.Associations).Create(&task).Error; err != nil {
			return err
		}
		if err := appendRefs[models.SimpleTag](tx, &task, "SimpleTags", userID, in.SimpleTags); err != nil {
			return err
		}
		if err := appendRefs[models.Person](tx, &task, "Persons", userID, in.Persons); err != nil {
			return err
		}
		taskID = task.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadTask(s.db, taskID)
}

// GetTask retrieves a fully-populated task under the ownership guard.
func (s *Service) GetTask(userID, id uuid.UUID) (*models.Task, error) {
	if _, err := loadOwned[models.Task](s.db, userID, id); err != nil {
		return nil, err
	}
	return s.loadTask(s.db, id)
}

// UpdateTask applies a presence-sensitive partial update: a relation key that
// is absent stays untouched, an explicit null clears it, a descriptor is
// reconciled; a present list key (even empty) replaces the whole set.
func (s *Service) UpdateTask(userID, id uuid.UUID, in TaskUpdate) (*models.Task, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if err := validateTaskUpdate(in); err != nil {
		return nil, err
	}
	var out *models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		task, err := loadOwned[models.Task](tx, userID, id)
		if err != nil {
			return err
		}

		if in.Name.Set {
			task.Name = in.Name.Value
		}
		if in.Done.Set {
			task.Done = in.Done.Value
		}
		if in.Focus.Set {
			task.Focus = in.Focus.Value
		}
		if in.Readiness.Set {
			task.Readiness = in.Readiness.Value
		}
		if in.DueDate.Set {
			if in.DueDate.Valid {
				d := datatypes.Date(in.DueDate.Value.Time)
				task.DueDate = &d
			} else {
				task.DueDate = nil
			}
		}
		if in.Reminder.Set {
			if in.Reminder.Valid {
				r := in.Reminder.Value
				task.Reminder = &r
			} else {
				task.Reminder = nil
			}
		}
		if in.Notes.Set {
			if in.Notes.Valid {
				n := in.Notes.Value
				task.Notes = &n
			} else {
				task.Notes = nil
			}
		}
		if in.WaitingForTime.Set {
			if in.WaitingForTime.Valid {
				w := in.WaitingForTime.Value
				task.WaitingForTime = &w
			} else {
				task.WaitingForTime = nil
			}
		}

		if in.WaitingForPerson.Set {
			if in.WaitingForPerson.Valid {
				person, err := getOrCreate[models.Person](tx, userID, in.WaitingForPerson.Value.Name)
				if err != nil {
					return err
				}
				task.WaitingForPersonID = &person.ID
			} else {
				task.WaitingForPersonID = nil
			}
			task.WaitingForPerson = nil
		}
		if in.Place.Set {
			if in.Place.Valid {
				place, err := getOrCreate[models.Place](tx, userID, in.Place.Value.Name)
				if err != nil {
					return err
				}
				task.PlaceID = &place.ID
			} else {
				task.PlaceID = nil
			}
			task.Place = nil
		}
		// area first, so a project in the same payload wins
		if in.Area.Set {
			if in.Area.Valid {
				area, err := getOrCreate[models.Area](tx, userID, in.Area.Value.Name)
				if err != nil {
					return err
				}
				task.AreaID = &area.ID
			} else {
				task.AreaID = nil
			}
			task.Area = nil
		}
		if in.Project.Set {
			if in.Project.Valid {
				proj, err := getOrCreate[models.Project](tx, userID, in.Project.Value.Name)
				if err != nil {
					return err
				}
				task.ProjectID = &proj.ID
				task.AreaID = proj.AreaID
			} else {
				task.ProjectID = nil
			}
			task.Project = nil
			task.Area = nil
		}

		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if in.SimpleTags != nil {
			if err := replaceRefs[models.SimpleTag](tx, task, "SimpleTags", userID, *in.SimpleTags); err != nil {
				return err
			}
		}
		if in.Persons != nil {
			if err := replaceRefs[models.Person](tx, task, "Persons", userID, *in.Persons); err != nil {
				return err
			}
		}
		out, err = s.loadTask(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DisableTask soft-deletes a task; the transition is terminal.
func (s *Service) DisableTask(userID, id uuid.UUID) (*models.Task, error) {
	if _, err := DisableEntity[models.Task](s, userID, id); err != nil {
		return nil, err
	}
	return s.loadTask(s.db, id)
}

// ToggleFocus flips the focus flag.
func (s *Service) ToggleFocus(userID, id uuid.UUID) (*models.Task, error) {
	return s.toggleFlag(userID, id, "focus")
}

// ToggleDone flips the done flag.
func (s *Service) ToggleDone(userID, id uuid.UUID) (*models.Task, error) {
	return s.toggleFlag(userID, id, "done")
}

// toggleFlag negates the column in place at the storage layer, so two racing
// toggles of the same task cannot lose an update.
func (s *Service) toggleFlag(userID, id uuid.UUID, column string) (*models.Task, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	var out *models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwned[models.Task](tx, userID, id); err != nil {
			return err
		}
		res := tx.Model(&models.Task{}).
			Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
			Update(column, gorm.Expr("NOT "+column))
		if res.Error != nil {
			return res.Error
		}
		t, err := s.loadTask(tx, id)
		out = t
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func appendRefs[T any, PT OwnedPtr[T]](tx *gorm.DB, task *models.Task, assoc string, userID uuid.UUID, refs []NameRef) error {
	for _, ref := range refs {
		ent, err := getOrCreate[T, PT](tx, userID, ref.Name)
		if err != nil {
			return err
		}
		if err := tx.Model(task).Association(assoc).Append(ent); err != nil {
			return err
		}
	}
	return nil
}

// replaceRefs swaps the entire association set. Only the join rows are
// touched; dropped entities themselves survive for other tasks.
func replaceRefs[T any, PT OwnedPtr[T]](tx *gorm.DB, task *models.Task, assoc string, userID uuid.UUID, refs []NameRef) error {
	ents := make([]*T, 0, len(refs))
	for _, ref := range refs {
		ent, err := getOrCreate[T, PT](tx, userID, ref.Name)
		if err != nil {
			return err
		}
		ents = append(ents, ent)
	}
	a := tx.Model(task).Association(assoc)
	if len(ents) == 0 {
		return a.Clear()
	}
	return a.Replace(ents)
}

func validateTaskUpdate(in TaskUpdate) error {
	ve := ValidationErrors{}
	if in.Name.Set {
		if !in.Name.Valid {
			ve.add("name", msgNull)
		} else if strings.TrimSpace(in.Name.Value) == "" {
			ve.add("name", msgBlank)
		}
	}
	if in.Done.Set && !in.Done.Valid {
		ve.add("done", msgNull)
	}
	if in.Focus.Set && !in.Focus.Valid {
		ve.add("focus", msgNull)
	}
	if in.Readiness.Set {
		if !in.Readiness.Valid {
			ve.add("readiness", msgNull)
		} else if !in.Readiness.Value.Valid() {
			ve.add("readiness", msgInvalidChoice)
		}
	}
	if in.WaitingForPerson.Set && in.WaitingForPerson.Valid {
		validateRef(ve, "waiting_for_person", &in.WaitingForPerson.Value)
	}
	if in.Place.Set && in.Place.Valid {
		validateRef(ve, "place", &in.Place.Value)
	}
	if in.Area.Set && in.Area.Valid {
		validateRef(ve, "area", &in.Area.Value)
	}
	if in.Project.Set && in.Project.Valid {
		validateRef(ve, "project", &in.Project.Value)
	}
	if in.SimpleTags != nil {
		validateRefList(ve, "simpletags", *in.SimpleTags)
	}
	if in.Persons != nil {
		validateRefList(ve, "persons", *in.Persons)
	}
	return ve.orNil()
}

// Descriptor names feed get-or-create, so a blank one would mint a nameless
// entity; reject it before anything is resolved.
func validateRef(ve ValidationErrors, field string, ref *NameRef) {
	if ref != nil && strings.TrimSpace(ref.Name) == "" {
		ve.add(field, msgBlank)
	}
}

func validateRefList(ve ValidationErrors, field string, refs []NameRef) {
	for _, ref := range refs {
		if strings.TrimSpace(ref.Name) == "" {
			ve.add(field, msgBlank)
			return
		}
	}
}
