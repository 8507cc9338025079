package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/terzigolu/gtd-go/internal/gtd"
	"github.com/terzigolu/gtd-go/pkg/models"
)

// EntityHandler serves one owned-entity kind. The five kinds share the exact
// same route shape, so the handler is generic and each constructor only
// wires the kind-specific service calls.
type EntityHandler[T any] struct {
	create  func(userID uuid.UUID, in gtd.EntityCreate) (*T, error)
	update  func(userID, id uuid.UUID, in gtd.EntityUpdate) (*T, error)
	get     func(userID, id uuid.UUID) (*T, error)
	list    func(userID uuid.UUID) ([]T, error)
	disable func(userID, id uuid.UUID) (*T, error)
}

// NewTagLikeHandler builds the handler for SimpleTag, Person, Place and
// Area. uniqueName turns on the duplicate-active-name validation that only
// Place carries.
func NewTagLikeHandler[T any, PT gtd.OwnedPtr[T]](svc *gtd.Service, uniqueName bool) *EntityHandler[T] {
	return &EntityHandler[T]{
		create: func(userID uuid.UUID, in gtd.EntityCreate) (*T, error) {
			return gtd.CreateEntity[T, PT](svc, userID, in.Name, uniqueName)
		},
		update: func(userID, id uuid.UUID, in gtd.EntityUpdate) (*T, error) {
			return gtd.RenameEntity[T, PT](svc, userID, id, in, uniqueName)
		},
		get: func(userID, id uuid.UUID) (*T, error) {
			return gtd.GetEntity[T, PT](svc, userID, id)
		},
		list: func(userID uuid.UUID) ([]T, error) {
			return gtd.ListEntities[T](svc, userID)
		},
		disable: func(userID, id uuid.UUID) (*T, error) {
			return gtd.DisableEntity[T, PT](svc, userID, id)
		},
	}
}

// NewProjectHandler wires the project-specific create/update, which also
// resolve the optional area descriptor.
func NewProjectHandler(svc *gtd.Service) *EntityHandler[models.Project] {
	return &EntityHandler[models.Project]{
		create: svc.CreateProject,
		update: svc.UpdateProject,
		get: func(userID, id uuid.UUID) (*models.Project, error) {
			return gtd.GetEntity[models.Project](svc, userID, id)
		},
		list: func(userID uuid.UUID) ([]models.Project, error) {
			return gtd.ListEntities[models.Project](svc, userID, "Area")
		},
		disable: func(userID, id uuid.UUID) (*models.Project, error) {
			return gtd.DisableEntity[models.Project](svc, userID, id)
		},
	}
}

// Register mounts the shared route shape under the given group.
func (h *EntityHandler[T]) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.PATCH("/:id/disable", h.Disable)
}

func (h *EntityHandler[T]) Create(c *gin.Context) {
	var in gtd.EntityCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ent, err := h.create(CurrentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ent)
}

func (h *EntityHandler[T]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ent, err := h.get(CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ent)
}

func (h *EntityHandler[T]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in gtd.EntityUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ent, err := h.update(CurrentUser(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ent)
}

func (h *EntityHandler[T]) Disable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ent, err := h.disable(CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ent)
}

func (h *EntityHandler[T]) List(c *gin.Context) {
	ents, err := h.list(CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ents)
}
