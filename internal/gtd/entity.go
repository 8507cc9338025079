package gtd

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/terzigolu/gtd-go/pkg/models"
	"gorm.io/gorm"
)

// OwnedPtr ties a concrete entity type to the shared owned-name capability,
// so get-or-create, the guard and disable are written once for all kinds.
type OwnedPtr[T any] interface {
	*T
	models.OwnedNamed
}

// getOrCreate resolves a name descriptor to the owner's active entity with
// that name, creating one when none exists. Always scoped to the owner: a
// same-named entity under a different user is never reused.
func getOrCreate[T any, PT OwnedPtr[T]](tx *gorm.DB, owner uuid.UUID, name string) (*T, error) {
	var out T
	err := tx.Where("user_id = ? AND name = ? AND is_active = ?", owner, name, true).First(&out).Error
	switch {
	case err == nil:
		return &out, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		PT(&out).Init(owner, name)
		if err := tx.Create(&out).Error; err != nil {
			return nil, err
		}
		return &out, nil
	default:
		return nil, err
	}
}

// loadOwned applies the retrieval/update guard: a missing id and an inactive
// row are both reported as not-found, an active row owned by someone else as
// forbidden.
func loadOwned[T any, PT OwnedPtr[T]](db *gorm.DB, userID, id uuid.UUID) (*T, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	var out T
	if err := db.First(&out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p := PT(&out)
	if !p.Active() {
		return nil, ErrNotFound
	}
	if p.Owner() != userID {
		return nil, ErrForbidden
	}
	return &out, nil
}

// loadForDisable checks existence before visibility: disabling an
// already-inactive entity is forbidden rather than not-found.
func loadForDisable[T any, PT OwnedPtr[T]](db *gorm.DB, userID, id uuid.UUID) (*T, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	var out T
	if err := db.First(&out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p := PT(&out)
	if p.Owner() != userID {
		return nil, ErrForbidden
	}
	if !p.Active() {
		return nil, ErrForbidden
	}
	return &out, nil
}

func validateEntityName(name string) error {
	ve := ValidationErrors{}
	if strings.TrimSpace(name) == "" {
		ve.add("name", msgBlank)
	}
	return ve.orNil()
}

// checkUniqueName rejects a second active row with the same (owner, name).
// Only Place opts in; duplicates are tolerated for the other kinds.
func checkUniqueName[T any](db *gorm.DB, owner uuid.UUID, name string, excludeID uuid.UUID) error {
	q := db.Model(new(T)).Where("user_id = ? AND name = ? AND is_active = ?", owner, name, true)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ValidationErrors{"non_field_errors": {msgDuplicatePlace}}
	}
	return nil
}

// CreateEntity inserts a new owned entity. Unlike the reconciler's
// get-or-create path, an explicit create always produces a new row.
func CreateEntity[T any, PT OwnedPtr[T]](s *Service, userID uuid.UUID, name string, uniqueName bool) (*T, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if err := validateEntityName(name); err != nil {
		return nil, err
	}
	if uniqueName {
		if err := checkUniqueName[T](s.db, userID, name, uuid.Nil); err != nil {
			return nil, err
		}
	}
	var out T
	PT(&out).Init(userID, name)
	if err := s.db.Create(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEntity retrieves one visible entity under the guard.
func GetEntity[T any, PT OwnedPtr[T]](s *Service, userID, id uuid.UUID) (*T, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	return loadOwned[T, PT](s.db, userID, id)
}

// ListEntities returns the caller's active entities of one kind.
func ListEntities[T any](s *Service, userID uuid.UUID, preloads ...string) ([]T, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	q := s.db.Where("user_id = ? AND is_active = ?", userID, true).Order("name")
	for _, p := range preloads {
		q = q.Preload(p)
	}
	out := []T{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// RenameEntity applies a partial update to an entity's name.
func RenameEntity[T any, PT OwnedPtr[T]](s *Service, userID, id uuid.UUID, in EntityUpdate, uniqueName bool) (*T, error) {
	out, err := loadOwned[T, PT](s.db, userID, id)
	if err != nil {
		return nil, err
	}
	if !in.Name.Set {
		return out, nil
	}
	ve := ValidationErrors{}
	if !in.Name.Valid {
		ve.add("name", msgNull)
	} else if strings.TrimSpace(in.Name.Value) == "" {
		ve.add("name", msgBlank)
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}
	if uniqueName {
		if err := checkUniqueName[T](s.db, userID, in.Name.Value, id); err != nil {
			return nil, err
		}
	}
	PT(out).Rename(in.Name.Value)
	if err := s.db.Save(out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DisableEntity is the one-way soft delete shared by all kinds.
func DisableEntity[T any, PT OwnedPtr[T]](s *Service, userID, id uuid.UUID) (*T, error) {
	out, err := loadForDisable[T, PT](s.db, userID, id)
	if err != nil {
		return nil, err
	}
	PT(out).Deactivate()
	if err := s.db.Model(out).Update("is_active", false).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject is the project-specific create: it additionally resolves an
// optional area descriptor through get-or-create.
func (s *Service) CreateProject(userID uuid.UUID, in EntityCreate) (*models.Project, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	ve := ValidationErrors{}
	if strings.TrimSpace(in.Name) == "" {
		ve.add("name", msgBlank)
	}
	if in.Area != nil && strings.TrimSpace(in.Area.Name) == "" {
		ve.add("area", msgBlank)
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}
	var proj models.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		proj.Init(userID, in.Name)
		if in.Area != nil {
			area, err := getOrCreate[models.Area](tx, userID, in.Area.Name)
			if err != nil {
				return err
			}
			proj.AreaID = &area.ID
			proj.Area = area
		}
		return tx.Omit("Area").Create(&proj).Error
	})
	if err != nil {
		return nil, err
	}
	return &proj, nil
}

// UpdateProject handles the project's presence-sensitive area key on top of
// the plain rename.
func (s *Service) UpdateProject(userID, id uuid.UUID, in EntityUpdate) (*models.Project, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if err := validateUpdateName(in.Name); err != nil {
		return nil, err
	}
	if in.Area.Set && in.Area.Valid && strings.TrimSpace(in.Area.Value.Name) == "" {
		return nil, ValidationErrors{"area": {msgBlank}}
	}
	var projID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		proj, err := loadOwned[models.Project](tx, userID, id)
		if err != nil {
			return err
		}
		if in.Name.Set {
			proj.Rename(in.Name.Value)
		}
		if in.Area.Set {
			if in.Area.Valid {
				area, err := getOrCreate[models.Area](tx, userID, in.Area.Value.Name)
				if err != nil {
					return err
				}
				proj.AreaID = &area.ID
			} else {
				proj.AreaID = nil
			}
			proj.Area = nil
		}
		projID = proj.ID
		return tx.Omit("Area").Save(proj).Error
	})
	if err != nil {
		return nil, err
	}
	var out models.Project
	if err := s.db.Preload("Area").First(&out, "id = ?", projID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func validateUpdateName(name Optional[string]) error {
	if !name.Set {
		return nil
	}
	ve := ValidationErrors{}
	if !name.Valid {
		ve.add("name", msgNull)
	} else if strings.TrimSpace(name.Value) == "" {
		ve.add("name", msgBlank)
	}
	return ve.orNil()
}
