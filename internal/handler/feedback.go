package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
	"campusevents/internal/monitoring"
)

type submitFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comments string `json:"comments"`
}

// SubmitFeedback upserts the acting student's feedback for an event.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	student := auth.CurrentIdentity(c)
	eventID := c.Param("eventId")

	id, err := h.feedback.Submit(c.Request.Context(), eventID, student.ID, student.CollegeID, req.Rating, req.Comments)
	monitoring.RecordLedgerOp("feedback", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publishActivity(c, "feedback", student.ID, eventID, "")
	c.JSON(http.StatusOK, gin.H{
		"message":    "feedback submitted successfully",
		"feedbackId": id,
	})
}

// StudentFeedback lists the acting student's feedback.
func (h *Handler) StudentFeedback(c *gin.Context) {
	student := auth.CurrentIdentity(c)
	entries, err := h.feedback.ListForStudent(c.Request.Context(), student.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": entries})
}

// EventFeedback lists an event's feedback plus its stats for admins.
func (h *Handler) EventFeedback(c *gin.Context) {
	eventID := c.Param("eventId")
	evt, entries, err := h.feedback.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		h.fail(c, err)
		return
	}
	_, stats, err := h.feedback.StatsForEvent(c.Request.Context(), eventID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": evt, "feedback": entries, "stats": stats})
}

// FeedbackStats returns an event's feedback stats for any user.
func (h *Handler) FeedbackStats(c *gin.Context) {
	evt, stats, err := h.feedback.StatsForEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": evt, "stats": stats})
}
