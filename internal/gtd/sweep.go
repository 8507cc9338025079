package gtd

import (
	"time"

	"github.com/terzigolu/gtd-go/pkg/models"
)

// Sweeps are the cron-driven transitions. Each one is a single conditional
// UPDATE over the qualifying set: rerunning after an interruption converges
// to the same end state because the predicate re-evaluates current rows.
// They have no caller and therefore no ownership scoping; inactive tasks are
// always excluded.

// SweepFocusDueToday sets focus on active tasks whose due date has arrived.
func (s *Service) SweepFocusDueToday() (int64, error) {
	tomorrow := startOfDay(s.now()).AddDate(0, 0, 1)
	res := s.db.Model(&models.Task{}).
		Where("due_date IS NOT NULL AND due_date < ? AND focus = ? AND is_active = ?", tomorrow, false, true).
		Update("focus", true)
	return res.RowsAffected, res.Error
}

// SweepOverdue marks active tasks past their due date. The flag is never
// cleared automatically.
func (s *Service) SweepOverdue() (int64, error) {
	today := startOfDay(s.now())
	res := s.db.Model(&models.Task{}).
		Where("due_date IS NOT NULL AND due_date < ? AND overdue = ? AND is_active = ?", today, false, true).
		Update("overdue", true)
	return res.RowsAffected, res.Error
}

// SweepPromoteWaiting moves waiting tasks whose waiting-for time has passed
// into the anytime bucket.
func (s *Service) SweepPromoteWaiting() (int64, error) {
	res := s.db.Model(&models.Task{}).
		Where("readiness = ? AND waiting_for_time IS NOT NULL AND waiting_for_time <= ? AND is_active = ?",
			models.ReadinessWaiting, s.now(), true).
		Update("readiness", models.ReadinessAnytime)
	return res.RowsAffected, res.Error
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
