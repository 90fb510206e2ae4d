package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/auth"
)

// PopularityReport returns registration counts per event, descending.
func (h *Handler) PopularityReport(c *gin.Context) {
	counts, err := h.reports.Popularity(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": counts})
}

// AttendanceReport returns an event's attendance stats.
func (h *Handler) AttendanceReport(c *gin.Context) {
	evt, stats, err := h.reports.EventAttendance(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": evt, "report": stats})
}

// FeedbackReport returns an event's feedback stats.
func (h *Handler) FeedbackReport(c *gin.Context) {
	evt, stats, err := h.reports.EventFeedback(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": evt, "report": stats})
}

// EventStatsReport returns an event plus its raw counters.
func (h *Handler) EventStatsReport(c *gin.Context) {
	evt, stats, err := h.reports.EventStats(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": evt, "stats": stats})
}

// StudentReport returns a student's identity and attendance totals.
func (h *Handler) StudentReport(c *gin.Context) {
	rep, err := h.reports.Student(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": rep.Student, "report": rep.Stats})
}

// TopStudentsReport returns the three most active feedback authors.
func (h *Handler) TopStudentsReport(c *gin.Context) {
	top, err := h.reports.TopStudents(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": top})
}

// DashboardReport aggregates the acting admin's college.
func (h *Handler) DashboardReport(c *gin.Context) {
	admin := auth.CurrentIdentity(c)
	dash, err := h.reports.Dashboard(c.Request.Context(), admin.CollegeID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": dash})
}
