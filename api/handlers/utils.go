package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/terzigolu/gtd-go/internal/gtd"
)

// userKey is where the auth middleware stores the resolved caller.
const userKey = "current_user_id"

// SetCurrentUser is called by the auth middleware once a token resolves.
func SetCurrentUser(c *gin.Context, id uuid.UUID) {
	c.Set(userKey, id)
}

// CurrentUser returns the caller's id, or uuid.Nil when unauthenticated; the
// core turns uuid.Nil into an unauthorized error before touching anything.
func CurrentUser(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(userKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// writeError maps the core's error taxonomy onto transport status codes.
func writeError(c *gin.Context, err error) {
	var ve gtd.ValidationErrors
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ve)
	case errors.Is(err, gtd.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
	case errors.Is(err, gtd.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
	case errors.Is(err, gtd.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseID rejects malformed ids as not-found, so the response does not leak
// whether anything exists behind the path.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return uuid.Nil, false
	}
	return id, true
}
