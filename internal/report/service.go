package report

import (
	"context"
	"errors"
	"math"

	"campusevents/internal/attendance"
	"campusevents/internal/events"
	"campusevents/internal/feedback"
	"campusevents/internal/identity"
	"campusevents/internal/registration"
)

// ErrStudentNotFound signals a student report for a nonexistent student.
var ErrStudentNotFound = errors.New("student not found")

// StudentReport pairs a student's identity fields with attendance totals.
type StudentReport struct {
	Student identity.Account        `json:"student"`
	Stats   attendance.StudentStats `json:"report"`
}

// Dashboard is the admin landing-page report, scoped to one college.
type Dashboard struct {
	CollegeID          string                `json:"collegeId"`
	TotalEvents        int                   `json:"totalEvents"`
	TotalRegistrations int                   `json:"totalRegistrations"`
	TotalAttendance    int                   `json:"totalAttendance"`
	TotalFeedback      int                   `json:"totalFeedback"`
	AvgRating          float64               `json:"avgRating"`
	Events             []events.Event        `json:"events"`
	TopStudents        []feedback.TopStudent `json:"topStudents"`
}

// Service composes the ledgers into read-only reports. Nothing is cached;
// every call recomputes from source.
type Service struct {
	events       *events.Service
	registration *registration.Service
	attendance   *attendance.Service
	feedback     *feedback.Service
	identity     *identity.Service
}

// NewService wires the aggregator over the ledgers.
func NewService(eventsSvc *events.Service, regSvc *registration.Service, attSvc *attendance.Service, fbSvc *feedback.Service, identitySvc *identity.Service) *Service {
	return &Service{
		events:       eventsSvc,
		registration: regSvc,
		attendance:   attSvc,
		feedback:     fbSvc,
		identity:     identitySvc,
	}
}

// Popularity returns every event with its registration count, descending.
func (s *Service) Popularity(ctx context.Context) ([]registration.EventCount, error) {
	return s.registration.CountsPerEvent(ctx)
}

// EventAttendance returns the event plus its attendance stats.
func (s *Service) EventAttendance(ctx context.Context, eventID string) (*events.Event, attendance.EventStats, error) {
	return s.attendance.StatsForEvent(ctx, eventID)
}

// EventFeedback returns the event plus its feedback stats.
func (s *Service) EventFeedback(ctx context.Context, eventID string) (*events.Event, feedback.EventStats, error) {
	return s.feedback.StatsForEvent(ctx, eventID)
}

// EventStats returns the event plus its raw counters.
func (s *Service) EventStats(ctx context.Context, eventID string) (*events.Event, events.Stats, error) {
	return s.events.Stats(ctx, eventID)
}

// Student returns a student's identity fields plus attendance totals.
func (s *Service) Student(ctx context.Context, studentID string) (*StudentReport, error) {
	student, err := s.identity.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	stats, err := s.attendance.StatsForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &StudentReport{Student: *student, Stats: stats}, nil
}

// TopStudents returns the three most active feedback authors.
func (s *Service) TopStudents(ctx context.Context) ([]feedback.TopStudent, error) {
	return s.feedback.TopStudents(ctx)
}

// Dashboard aggregates one college's totals, its latest five events and
// the top three students. avgRating is the simple mean of per-event
// averages over all the college's events.
func (s *Service) Dashboard(ctx context.Context, collegeID string) (*Dashboard, error) {
	evts, err := s.events.ListByCollege(ctx, collegeID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{CollegeID: collegeID, TotalEvents: len(evts)}
	var ratingSum float64
	for _, evt := range evts {
		_, st, err := s.events.Stats(ctx, evt.ID)
		if err != nil {
			return nil, err
		}
		d.TotalRegistrations += st.RegistrationCount
		d.TotalAttendance += st.AttendanceCount
		d.TotalFeedback += st.FeedbackCount
		ratingSum += st.AvgRating
	}
	if d.TotalEvents > 0 {
		d.AvgRating = math.Round(ratingSum/float64(d.TotalEvents)*100) / 100
	}

	if len(evts) > 5 {
		evts = evts[:5]
	}
	d.Events = evts

	top, err := s.feedback.TopStudents(ctx)
	if err != nil {
		return nil, err
	}
	d.TopStudents = top
	return d, nil
}
