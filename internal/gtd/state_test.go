package gtd

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/terzigolu/gtd-go/pkg/models"
)

func mustCreateTask(t *testing.T, s *Service, user uuid.UUID, in TaskCreate) *models.Task {
	t.Helper()
	task, err := s.CreateTask(user, in)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	return task
}

func TestToggleFocusDoubleNegationIdentity(t *testing.T) {
	s := newTestService(t)
	user := newTestUser(t, s, "toggler")
	task := mustCreateTask(t, s, user, TaskCreate{Name: "t"})

	once, err := s.ToggleFocus(user, task.ID)
	if err != nil {
		t.Fatalf("ToggleFocus() error = %v", err)
	}
	if !once.Focus {
		t.Error("Focus = false after first toggle, want true")
	}
	twice, err := s.ToggleFocus(user, task.ID)
	if err != nil {
		t.Fatalf("ToggleFocus() error = %v", err)
	}
	if twice.Focus {
		t.Error("Focus = true after second toggle, want original false")
	}
}

func TestToggleDone(t *testing.T) {
	s := newTestService(t)
	user := newTestUser(t, s, "doner")
	task := mustCreateTask(t, s, user, TaskCreate{Name: "t"})

	got, err := s.ToggleDone(user, task.ID)
	if err != nil {
		t.Fatalf("ToggleDone() error = %v", err)
	}
	if !got.Done {
		t.Error("Done = false after toggle, want true")
	}
	if got.Focus {
		t.Error("toggle-done must not touch focus")
	}
}

func TestToggleOtherOwnerForbidden(t *testing.T) {
	s := newTestService(t)
	owner := newTestUser(t, s, "the-owner")
	intruder := newTestUser(t, s, "the-intruder")
	task := mustCreateTask(t, s, owner, TaskCreate{Name: "private"})

	if _, err := s.ToggleFocus(intruder, task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("ToggleFocus() error = %v, want ErrForbidden", err)
	}
	got, err := s.GetTask(owner, task.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.Focus {
		t.Error("denied toggle must not change state")
	}
}

func TestToggleMissingTaskNotFound(t *testing.T) {
	s := newTestService(t)
	user := newTestUser(t, s, "toggler404")

	if _, err := s.ToggleDone(user, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ToggleDone() error = %v, want ErrNotFound", err)
	}
}

func TestToggleUnauthenticated(t *testing.T) {
	s := newTestService(t)
	user := newTestUser(t, s, "anon-toggle")
	task := mustCreateTask(t, s, user, TaskCreate{Name: "t"})

	if _, err := s.ToggleFocus(uuid.Nil, task.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ToggleFocus() error = %v, want ErrUnauthorized", err)
	}
}

func TestDisableIsTerminalAndExclusionary(t *testing.T) {
	s := newTestService(t)
	user := newTestUser(t, s, "disabler")
	task := mustCreateTask(t, s, user, TaskCreate{Name: "doomed"})

	disabled, err := s.DisableTask(user, task.ID)
	if err != nil {
		t.Fatalf("DisableTask() error = %v", err)
	}
	if disabled.IsActive {
		t.Error("IsActive = true after disable")
	}

	// invisible to retrieval, update and toggles
	if _, err := s.GetTask(user, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTask() error = %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateTask(user, task.ID, taskUpdateFromJSON(t, `{"name": "revive"}`)); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTask() error = %v, want ErrNotFound", err)
	}
	if _, err := s.ToggleFocus(user, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleFocus() error = %v, want ErrNotFound", err)
	}

	// gone from listings
	tasks, err := s.ListTasks(user, TaskFilter{})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("ListTasks() returned %d tasks, want 0", len(tasks))
	}
}

func TestDisableTwiceForbidden(t *testing.T) {
	s := newTestService(t)
	user := newTestUser(t, s, "redisabler")
	task := mustCreateTask(t, s, user, TaskCreate{Name: "t"})

	if _, err := s.DisableTask(user, task.ID); err != nil {
		t.Fatalf("DisableTask() error = %v", err)
	}
	if _, err := s.DisableTask(user, task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("second DisableTask() error = %v, want ErrForbidden", err)
	}
}

func TestDisableOtherOwnerForbidden(t *testing.T) {
	s := newTestService(t)
	owner := newTestUser(t, s, "d-owner")
	intruder := newTestUser(t, s, "d-intruder")
	task := mustCreateTask(t, s, owner, TaskCreate{Name: "t"})

	if _, err := s.DisableTask(intruder, task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("DisableTask() error = %v, want ErrForbidden", err)
	}
	if got, err := s.GetTask(owner, task.ID); err != nil || !got.IsActive {
		t.Errorf("task should survive the denied disable: err=%v active=%v", err, got != nil && got.IsActive)
	}
}

func TestGetOtherOwnerForbidden(t *testing.T) {
	s := newTestService(t)
	owner := newTestUser(t, s, "g-owner")
	intruder := newTestUser(t, s, "g-intruder")
	task := mustCreateTask(t, s, owner, TaskCreate{Name: "secret"})

	if _, err := s.GetTask(intruder, task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("GetTask() error = %v, want ErrForbidden", err)
	}
}

func TestGetMissingTaskNotFound(t *testing.T) {
	s := newTestService(t)
	user := newTestUser(t, s, "g-missing")

	if _, err := s.GetTask(user, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTask() error = %v, want ErrNotFound", err)
	}
}
