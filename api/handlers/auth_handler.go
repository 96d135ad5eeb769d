package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hartono/familytree/internal/auth"
	"github.com/hartono/familytree/internal/family"
	"github.com/hartono/familytree/internal/models"
)

// RegisterInput DTO for account registration. A new family is always created
// from the supplied code; family codes are single-use.
type RegisterInput struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Name       string `json:"name" binding:"required"`
	FamilyCode string `json:"family_code" binding:"required"`
	FamilyName string `json:"family_name"`
	MemberCode string `json:"member_code"`
}

// Register creates a user plus its family scope and opens a session.
func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	familyCode := strings.ToUpper(strings.TrimSpace(input.FamilyCode))
	if familyCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Family code must not be empty"})
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err == nil && count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		return
	}
	if err := h.DB.Model(&models.Family{}).Where("family_code = ?", familyCode).Count(&count).Error; err == nil && count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Family code is already in use"})
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	familyName := input.FamilyName
	if familyName == "" {
		familyName = fmt.Sprintf("%s's Family", input.Name)
	}
	description := fmt.Sprintf("Family tree for %s", input.Name)
	fam := models.Family{
		Name:        familyName,
		Description: &description,
		FamilyCode:  familyCode,
	}
	if err := h.DB.Create(&fam).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create family"})
		return
	}

	var memberID *uint
	if input.MemberCode != "" {
		if member, err := family.MemberByCode(h.DB, input.MemberCode); err == nil {
			memberID = &member.ID
		}
	}

	user := models.User{
		Username:     input.Username,
		PasswordHash: hash,
		Name:         input.Name,
		Role:         models.RoleMember,
		Status:       h.Policy(models.RoleMember),
		FamilyID:     &fam.ID,
		MemberID:     memberID,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	if user.Status == models.StatusApproved {
		h.openSession(c, user.ID)
	}

	user.Family = &fam
	c.JSON(http.StatusCreated, user)
}

// registerMemberOption is one row of the public member listing backing the
// registration form.
type registerMemberOption struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	FamilyName string `json:"family_name"`
}

// MembersForRegister lists every member with their family name so the
// registration form can offer an existing member to link against. Public
// endpoint; exposes nothing beyond id, name and family name.
func (h *Handler) MembersForRegister(c *gin.Context) {
	var rows []registerMemberOption
	if err := h.DB.Model(&models.Member{}).
		Select("family_members.id, family_members.name, families.name AS family_name").
		Joins("INNER JOIN families ON families.id = family_members.family_id").
		Order("families.name ASC, family_members.name ASC").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// LoginInput DTO for login.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and opens a session for approved accounts.
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.Preload("Family").Preload("Member").
		Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if user.Status != models.StatusApproved {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is awaiting approval"})
		return
	}

	h.openSession(c, user.ID)
	c.JSON(http.StatusOK, user)
}

// Logout destroys the current session.
func (h *Handler) Logout(c *gin.Context) {
	token, _ := c.Cookie(SessionCookie)
	_ = h.Sessions.Destroy(token)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the session user with family and member context.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (h *Handler) openSession(c *gin.Context, userID uint) {
	session, err := h.Sessions.Create(userID)
	if err != nil {
		return
	}
	c.SetCookie(SessionCookie, session.Token, int(h.Sessions.TTL().Seconds()), "/", "", false, true)
}
