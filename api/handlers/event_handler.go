package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hartono/familytree/internal/models"
)

// EventInput DTO for creating or updating a calendar event. Dates stay
// literal YYYY-MM-DD strings.
type EventInput struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	EventDate   string  `json:"event_date" binding:"required"`
	EventTime   *string `json:"event_time"`
	Location    *string `json:"location"`
}

// ListEvents returns the family's events, optionally narrowed to one calendar
// month via `month` and `year` query params (both required to filter). Listing
// first re-runs the family-wide birthday sync so the calendar view always
// reflects current member data.
func (h *Handler) ListEvents(c *gin.Context) {
	user := currentUser(c)

	h.Calendar.SyncFamilyBirthdays(*user.FamilyID, nil)

	query := h.DB.Where("family_id = ?", *user.FamilyID)
	if monthParam, yearParam := c.Query("month"), c.Query("year"); monthParam != "" && yearParam != "" {
		month, merr := strconv.Atoi(monthParam)
		year, yerr := strconv.Atoi(yearParam)
		if merr != nil || yerr != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month or year"})
			return
		}
		// Dates are stored as YYYY-MM-DD strings, so a month is a prefix.
		query = query.Where("event_date LIKE ?", fmt.Sprintf("%04d-%02d-%%", year, month))
	}

	var events []models.Event
	if err := query.
		Order("event_date ASC, event_time ASC").
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// CreateEvent adds an event to the family calendar.
func (h *Handler) CreateEvent(c *gin.Context) {
	user := currentUser(c)

	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.Event{
		FamilyID:    *user.FamilyID,
		Title:       input.Title,
		Description: input.Description,
		EventDate:   input.EventDate,
		EventTime:   input.EventTime,
		Location:    input.Location,
		CreatedBy:   &user.ID,
	}
	if err := h.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent replaces an event's fields.
func (h *Handler) UpdateEvent(c *gin.Context) {
	user := currentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var event models.Event
	if err := h.DB.
		Where("id = ? AND family_id = ?", id, *user.FamilyID).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event.Title = input.Title
	event.Description = input.Description
	event.EventDate = input.EventDate
	event.EventTime = input.EventTime
	event.Location = input.Location
	if err := h.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event from the family calendar.
func (h *Handler) DeleteEvent(c *gin.Context) {
	user := currentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	result := h.DB.Where("id = ? AND family_id = ?", id, *user.FamilyID).Delete(&models.Event{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
