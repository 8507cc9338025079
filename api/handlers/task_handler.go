package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/terzigolu/gtd-go/internal/gtd"
	"github.com/terzigolu/gtd-go/pkg/models"
)

// TaskHandler exposes the task operations over HTTP. It only binds payloads,
// hands them to the core and maps the result; all policy lives in the core.
type TaskHandler struct {
	Svc *gtd.Service
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var in gtd.TaskCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.Svc.CreateTask(CurrentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := h.Svc.GetTask(CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update handles PATCH /tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in gtd.TaskUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.Svc.UpdateTask(CurrentUser(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Disable handles PATCH /tasks/:id/disable.
func (h *TaskHandler) Disable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := h.Svc.DisableTask(CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ToggleFocus handles PATCH /tasks/:id/toggle-focus.
func (h *TaskHandler) ToggleFocus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := h.Svc.ToggleFocus(CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ToggleDone handles PATCH /tasks/:id/toggle-done.
func (h *TaskHandler) ToggleDone(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := h.Svc.ToggleDone(CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// List handles GET /tasks with optional readiness/focus/done predicates.
func (h *TaskHandler) List(c *gin.Context) {
	f := gtd.TaskFilter{
		Readiness: models.Readiness(c.Query("readiness")),
		Focus:     c.Query("focus") == "true",
		Done:      c.Query("done") == "true",
	}
	tasks, err := h.Svc.ListTasks(CurrentUser(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
