package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
	"campusevents/internal/monitoring"
)

type markAttendanceRequest struct {
	Status string `json:"status" binding:"required,oneof=present absent"`
}

// MarkAttendance upserts a student's attendance for an event.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	admin := auth.CurrentIdentity(c)
	eventID, studentID := c.Param("eventId"), c.Param("studentId")

	id, err := h.attendance.Mark(c.Request.Context(), eventID, studentID, req.Status)
	monitoring.RecordLedgerOp("attendance", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publishActivity(c, "attendance", admin.ID, eventID, req.Status)
	c.JSON(http.StatusOK, gin.H{
		"message":      "attendance marked successfully",
		"attendanceId": id,
	})
}

// EventAttendance lists an event's marks plus its stats for admins.
func (h *Handler) EventAttendance(c *gin.Context) {
	eventID := c.Param("eventId")
	evt, recs, err := h.attendance.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		h.fail(c, err)
		return
	}
	_, stats, err := h.attendance.StatsForEvent(c.Request.Context(), eventID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": evt, "attendance": recs, "stats": stats})
}

// StudentAttendance lists the acting student's marks plus totals.
func (h *Handler) StudentAttendance(c *gin.Context) {
	student := auth.CurrentIdentity(c)
	recs, err := h.attendance.ListForStudent(c.Request.Context(), student.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	stats, err := h.attendance.StatsForStudent(c.Request.Context(), student.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": recs, "stats": stats})
}

// AttendanceStats returns an event's attendance stats for any user.
func (h *Handler) AttendanceStats(c *gin.Context) {
	evt, stats, err := h.attendance.StatsForEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": evt, "stats": stats})
}
