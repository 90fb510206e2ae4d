package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
	"campusevents/internal/monitoring"
)

// RegisterForEvent records the acting student's registration.
func (h *Handler) RegisterForEvent(c *gin.Context) {
	student := auth.CurrentIdentity(c)
	eventID := c.Param("eventId")

	id, err := h.registrations.Register(c.Request.Context(), eventID, student.ID, student.CollegeID)
	monitoring.RecordLedgerOp("registration", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publishActivity(c, "registration", student.ID, eventID, "")
	c.JSON(http.StatusCreated, gin.H{
		"message":        "successfully registered for event",
		"registrationId": id,
	})
}

// CancelRegistration deletes the acting student's registration.
func (h *Handler) CancelRegistration(c *gin.Context) {
	student := auth.CurrentIdentity(c)
	eventID := c.Param("eventId")

	err := h.registrations.Cancel(c.Request.Context(), eventID, student.ID)
	monitoring.RecordLedgerOp("cancellation", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publishActivity(c, "cancellation", student.ID, eventID, "")
	c.JSON(http.StatusOK, gin.H{"message": "registration cancelled successfully"})
}

// StudentRegistrations lists the acting student's registrations.
func (h *Handler) StudentRegistrations(c *gin.Context) {
	student := auth.CurrentIdentity(c)
	regs, err := h.registrations.ListForStudent(c.Request.Context(), student.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}

// EventRegistrations lists an event's registrations for admins.
func (h *Handler) EventRegistrations(c *gin.Context) {
	evt, regs, err := h.registrations.ListForEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": evt, "registrations": regs})
}
