package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hartono/familytree/internal/models"
)

// RequireSession resolves the session cookie and stores the user on the
// context, aborting with 401 before any domain logic runs.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		user, err := h.Sessions.Lookup(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireFamily additionally demands a family scope on the account.
func (h *Handler) RequireFamily() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || user.FamilyID == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireSuperadmin gates the admin approval endpoints.
func (h *Handler) RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || user.Role != models.RoleSuperadmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Superadmin access required"})
			return
		}
		c.Next()
	}
}
