package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Tree returns the assembled family forest.
func (h *Handler) Tree(c *gin.Context) {
	user := currentUser(c)
	tree, err := h.Engine.AssembleTree(c.Request.Context(), *user.FamilyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch family tree"})
		return
	}
	c.JSON(http.StatusOK, tree)
}
