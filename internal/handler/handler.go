package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusevents/internal/activity"
	"campusevents/internal/attendance"
	"campusevents/internal/auth"
	"campusevents/internal/events"
	"campusevents/internal/feedback"
	"campusevents/internal/identity"
	"campusevents/internal/queue"
	"campusevents/internal/registration"
	"campusevents/internal/report"
	"campusevents/internal/store"
)

// Handler exposes the HTTP surface over the domain services.
type Handler struct {
	identity      *identity.Service
	events        *events.Service
	registrations *registration.Service
	attendance    *attendance.Service
	feedback      *feedback.Service
	reports       *report.Service
	activity      *activity.Repository
	queue         queue.Queue
	db            *store.DB
	redis         *store.Redis
	jwtIssuer     string
	jwtKey        string
	tokenTTL      time.Duration
}

// Deps bundles everything the handler needs at construction.
type Deps struct {
	Identity      *identity.Service
	Events        *events.Service
	Registrations *registration.Service
	Attendance    *attendance.Service
	Feedback      *feedback.Service
	Reports       *report.Service
	Activity      *activity.Repository
	Queue         queue.Queue
	DB            *store.DB
	Redis         *store.Redis
	JWTIssuer     string
	JWTKey        string
	TokenTTL      time.Duration
}

// New builds a handler.
func New(d Deps) *Handler {
	return &Handler{
		identity:      d.Identity,
		events:        d.Events,
		registrations: d.Registrations,
		attendance:    d.Attendance,
		feedback:      d.Feedback,
		reports:       d.Reports,
		activity:      d.Activity,
		queue:         d.Queue,
		db:            d.DB,
		redis:         d.Redis,
		jwtIssuer:     d.JWTIssuer,
		jwtKey:        d.JWTKey,
		tokenTTL:      d.TokenTTL,
	}
}

// Routes mounts every API route on the engine.
func (h *Handler) Routes(r *gin.Engine, gate *auth.Gate) {
	api := r.Group("/api")

	api.GET("/health", h.Health)

	authGroup := api.Group("/auth")
	authGroup.POST("/admin/signup", h.AdminSignup)
	authGroup.POST("/admin/login", h.AdminLogin)
	authGroup.POST("/student/signup", h.StudentSignup)
	authGroup.POST("/student/login", h.StudentLogin)

	api.GET("/colleges", h.ListColleges)
	api.POST("/colleges", h.CreateCollege)

	ev := api.Group("/events")
	ev.POST("", gate.RequireAdmin(), h.CreateEvent)
	ev.GET("", gate.RequireAdmin(), h.ListAllEvents)
	ev.GET("/:collegeId", h.ListEventsByCollege)
	ev.PUT("/:id", gate.RequireAdmin(), h.UpdateEvent)
	ev.DELETE("/:id", gate.RequireAdmin(), h.DeleteEvent)

	reg := api.Group("/registrations")
	reg.POST("/:eventId", gate.RequireStudent(), h.RegisterForEvent)
	reg.DELETE("/:eventId", gate.RequireStudent(), h.CancelRegistration)
	reg.GET("/student", gate.RequireStudent(), h.StudentRegistrations)
	reg.GET("/event/:eventId", gate.RequireAdmin(), h.EventRegistrations)

	att := api.Group("/attendance")
	att.POST("/:eventId/:studentId", gate.RequireAdmin(), h.MarkAttendance)
	att.GET("/event/:eventId", gate.RequireAdmin(), h.EventAttendance)
	att.GET("/student", gate.RequireStudent(), h.StudentAttendance)
	att.GET("/stats/:eventId", gate.RequireUser(), h.AttendanceStats)

	fb := api.Group("/feedback")
	fb.POST("/:eventId", gate.RequireStudent(), h.SubmitFeedback)
	fb.GET("/student", gate.RequireStudent(), h.StudentFeedback)
	fb.GET("/event/:eventId", gate.RequireAdmin(), h.EventFeedback)
	fb.GET("/stats/:eventId", gate.RequireUser(), h.FeedbackStats)

	rep := api.Group("/reports", gate.RequireAdmin())
	rep.GET("/popularity", h.PopularityReport)
	rep.GET("/attendance/:eventId", h.AttendanceReport)
	rep.GET("/feedback/:eventId", h.FeedbackReport)
	rep.GET("/event/:eventId", h.EventStatsReport)
	rep.GET("/student/:studentId", h.StudentReport)
	rep.GET("/top-students", h.TopStudentsReport)
	rep.GET("/dashboard", h.DashboardReport)

	api.GET("/activity", gate.RequireAdmin(), h.RecentActivity)
}

// Health reports service status with dependency probes.
func (h *Handler) Health(c *gin.Context) {
	dbHealthy := h.db != nil && h.db.Client.PingContext(c.Request.Context()) == nil
	status := "healthy"
	code := http.StatusOK
	if !dbHealthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"db":        dbHealthy,
		"redis":     h.redis.Healthy(c.Request.Context()),
	})
}

// fail maps domain errors to HTTP statuses; unknown errors become a 500
// with the detail kept out of the response.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, events.ErrNotFound),
		errors.Is(err, registration.ErrNotRegistered),
		errors.Is(err, attendance.ErrStudentNotFound),
		errors.Is(err, report.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, registration.ErrDuplicate),
		errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, identity.ErrCollegeNotFound),
		errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, events.ErrCollegeNotFound),
		errors.Is(err, attendance.ErrCollegeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, registration.ErrCollegeMismatch),
		errors.Is(err, feedback.ErrCollegeMismatch):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	default:
		log.Printf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func bindFail(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "validation failed",
		"errors":  []string{err.Error()},
	})
}

// publishActivity enqueues an audit message; failures are logged, never
// surfaced to the caller.
func (h *Handler) publishActivity(c *gin.Context, kind, actorID, eventID, detail string) {
	if h.queue == nil {
		return
	}
	msg := queue.Message{Kind: kind, ActorID: actorID, EventID: eventID, Detail: detail}
	if err := h.queue.Publish(c.Request.Context(), msg); err != nil {
		log.Printf("activity publish failed: %v", err)
	}
}

// RecentActivity returns the newest audit entries.
func (h *Handler) RecentActivity(c *gin.Context) {
	entries, err := h.activity.ListRecent(c.Request.Context(), 50)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
