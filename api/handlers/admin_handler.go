package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hartono/familytree/internal/models"
)

// PendingUsers lists accounts awaiting approval.
func (h *Handler) PendingUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Preload("Family").
		Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// ApproveInput DTO for the approval decision.
type ApproveInput struct {
	UserID  uint `json:"user_id" binding:"required"`
	Approve bool `json:"approve"`
}

// ApproveUser moves a pending account to approved or rejected.
func (h *Handler) ApproveUser(c *gin.Context) {
	var input ApproveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.First(&user, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	status := models.StatusRejected
	if input.Approve {
		status = models.StatusApproved
	}
	if err := h.DB.Model(&user).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user status"})
		return
	}

	user.Status = status
	c.JSON(http.StatusOK, user)
}
