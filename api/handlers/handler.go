package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hartono/familytree/internal/auth"
	"github.com/hartono/familytree/internal/calendar"
	"github.com/hartono/familytree/internal/family"
	"github.com/hartono/familytree/internal/models"
	"github.com/hartono/familytree/internal/repository"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "session"

const userContextKey = "current_user"

// Handler bundles the collaborators the HTTP layer dispatches into.
type Handler struct {
	DB       *gorm.DB
	Engine   *family.Engine
	Calendar *calendar.Syncer
	Sessions *auth.SessionManager
	Policy   auth.ApprovalPolicy
}

func NewHandler(db *gorm.DB, engine *family.Engine, syncer *calendar.Syncer, sessions *auth.SessionManager, policy auth.ApprovalPolicy) *Handler {
	return &Handler{
		DB:       db,
		Engine:   engine,
		Calendar: syncer,
		Sessions: sessions,
		Policy:   policy,
	}
}

// Health reports liveness of the API and its database connection.
func (h *Handler) Health(c *gin.Context) {
	if err := repository.Health(h.DB); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// currentUser returns the user the session middleware resolved.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	return v.(*models.User)
}

// respondEngineError maps the engine's error taxonomy onto HTTP statuses.
func respondEngineError(c *gin.Context, err error, fallback string) {
	var verr family.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, family.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": family.ErrNotFound.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
