package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hartono/familytree/internal/family"
)

// ListMembers returns the family's members with projected child order.
func (h *Handler) ListMembers(c *gin.Context) {
	user := currentUser(c)
	members, err := h.Engine.ListMembers(c.Request.Context(), *user.FamilyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch family members"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// CreateMember creates a member in the actor's family.
func (h *Handler) CreateMember(c *gin.Context) {
	user := currentUser(c)

	var input family.MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.Engine.CreateMember(c.Request.Context(), *user.FamilyID, &user.ID, input)
	if err != nil {
		respondEngineError(c, err, "Failed to create family member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// GetMember returns one member of the actor's family.
func (h *Handler) GetMember(c *gin.Context) {
	user := currentUser(c)
	id, err := memberID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member id"})
		return
	}

	member, err := h.Engine.GetMember(c.Request.Context(), *user.FamilyID, id)
	if err != nil {
		respondEngineError(c, err, "Failed to fetch family member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// UpdateMember applies a full-replacement update and the spouse/birthday
// reconciliation that follows from it.
func (h *Handler) UpdateMember(c *gin.Context) {
	user := currentUser(c)
	id, err := memberID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member id"})
		return
	}

	var input family.MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.Engine.UpdateMember(c.Request.Context(), *user.FamilyID, &user.ID, id, input)
	if err != nil {
		respondEngineError(c, err, "Failed to update family member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteMember removes a member from the actor's family.
func (h *Handler) DeleteMember(c *gin.Context) {
	user := currentUser(c)
	id, err := memberID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member id"})
		return
	}

	if err := h.Engine.DeleteMember(c.Request.Context(), *user.FamilyID, &user.ID, id); err != nil {
		respondEngineError(c, err, "Failed to delete family member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Family member deleted successfully"})
}

// MemberByCode resolves a member code across families, for the spouse-linking
// flow.
func (h *Handler) MemberByCode(c *gin.Context) {
	member, err := family.MemberByCode(h.DB, c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member code not found"})
		return
	}
	c.JSON(http.StatusOK, member)
}

func memberID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
