package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
)

type eventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	CollegeID   string    `json:"college_id" binding:"required"`
}

// CreateEvent creates an event owned by the acting admin.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	admin := auth.CurrentIdentity(c)
	evt, err := h.events.Create(c.Request.Context(), req.Title, req.Description, req.Type, req.Date, admin.ID, req.CollegeID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "event created successfully", "event": evt})
}

// ListAllEvents returns every event across colleges.
func (h *Handler) ListAllEvents(c *gin.Context) {
	evts, err := h.events.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evts})
}

// ListEventsByCollege returns a college's events. Public.
func (h *Handler) ListEventsByCollege(c *gin.Context) {
	evts, err := h.events.ListByCollege(c.Request.Context(), c.Param("collegeId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evts})
}

// UpdateEvent replaces an event's fields.
func (h *Handler) UpdateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	evt, err := h.events.Update(c.Request.Context(), c.Param("id"), req.Title, req.Description, req.Type, req.Date, req.CollegeID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event updated successfully", "event": evt})
}

// DeleteEvent removes an event.
func (h *Handler) DeleteEvent(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted successfully"})
}
