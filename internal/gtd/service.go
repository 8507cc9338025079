package gtd

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/terzigolu/gtd-go/pkg/models"
	"gorm.io/gorm"
)

// Service is the reconciliation core. Every operation takes the caller's
// user id explicitly; uuid.Nil means unauthenticated and is rejected before
// any lookup.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// taskPreloads lists every association the serialized task carries.
var taskPreloads = []string{
	"WaitingForPerson",
	"SimpleTags",
	"Persons",
	"Place",
	"Area",
	"Project",
	"Project.Area",
}

func withTaskPreloads(db *gorm.DB) *gorm.DB {
	for _, p := range taskPreloads {
		db = db.Preload(p)
	}
	return db
}

// loadTask fetches a fully-populated task without any visibility checks;
// callers run the guard first.
func (s *Service) loadTask(db *gorm.DB, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := withTaskPreloads(db).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	normalizeTask(&task)
	return &task, nil
}

// normalizeTask keeps the association lists non-nil so they serialize as
// empty arrays rather than null.
func normalizeTask(task *models.Task) {
	if task.SimpleTags == nil {
		task.SimpleTags = []*models.SimpleTag{}
	}
	if task.Persons == nil {
		task.Persons = []*models.Person{}
	}
}
