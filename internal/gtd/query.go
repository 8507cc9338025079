package gtd

import (
	"github.com/google/uuid"
	"github.com/terzigolu/gtd-go/pkg/models"
)

// TaskFilter narrows a listing. Zero values mean "no predicate"; focus and
// done only ever filter for true, matching the focused/done list views.
type TaskFilter struct {
	Readiness models.Readiness
	Focus     bool
	Done      bool
}

// ListTasks returns the caller's active tasks matching the filter, in
// creation order. Other users' tasks are never returned, whatever the
// predicate.
func (s *Service) ListTasks(userID uuid.UUID, f TaskFilter) ([]models.Task, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if f.Readiness != "" && !f.Readiness.Valid() {
		return nil, ValidationErrors{"readiness": {msgInvalidChoice}}
	}
	q := s.db.Where("user_id = ? AND is_active = ?", userID, true)
	if f.Readiness != "" {
		q = q.Where("readiness = ?", f.Readiness)
	}
	if f.Focus {
		q = q.Where("focus = ?", true)
	}
	if f.Done {
		q = q.Where("done = ?", true)
	}
	tasks := []models.Task{}
	if err := withTaskPreloads(q).Order("created_at, id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	for i := range tasks {
		normalizeTask(&tasks[i])
	}
	return tasks, nil
}
