// Package api wires the HTTP route table.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hartono/familytree/api/handlers"
)

// NewRouter builds the gin engine with the full route table.
func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/logout", h.Logout)
			authGroup.GET("/members-for-register", h.MembersForRegister)
			authGroup.GET("/me", h.RequireSession(), h.Me)
		}

		admin := api.Group("/admin", h.RequireSession(), h.RequireSuperadmin())
		{
			admin.GET("/pending-users", h.PendingUsers)
			admin.POST("/approve", h.ApproveUser)
		}

		famGroup := api.Group("", h.RequireSession(), h.RequireFamily())
		{
			famGroup.GET("/members", h.ListMembers)
			famGroup.POST("/members", h.CreateMember)
			famGroup.GET("/members/:id", h.GetMember)
			famGroup.PUT("/members/:id", h.UpdateMember)
			famGroup.DELETE("/members/:id", h.DeleteMember)
			famGroup.GET("/member-by-code/:code", h.MemberByCode)

			famGroup.GET("/tree", h.Tree)

			famGroup.GET("/events", h.ListEvents)
			famGroup.POST("/events", h.CreateEvent)
			famGroup.PUT("/events/:id", h.UpdateEvent)
			famGroup.DELETE("/events/:id", h.DeleteEvent)

			famGroup.PUT("/profile", h.UpdateProfile)
			famGroup.PUT("/profile/password", h.ChangePassword)
		}
	}

	return r
}
