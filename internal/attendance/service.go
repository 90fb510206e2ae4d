package attendance

import (
	"context"
	"errors"
	"math"

	"campusevents/internal/events"
	"campusevents/internal/identity"
)

var (
	// ErrStudentNotFound signals a mark for a nonexistent student.
	ErrStudentNotFound = errors.New("student not found")
	// ErrCollegeMismatch signals a mark for a student outside the
	// event's college.
	ErrCollegeMismatch = errors.New("student is not from the same college as the event")
)

// EventStats summarizes one event's attendance. The percentage is taken
// over registrations, not marked rows, so no-shows drag it down.
type EventStats struct {
	TotalRegistrations   int     `json:"totalRegistrations"`
	PresentCount         int     `json:"presentCount"`
	AbsentCount          int     `json:"absentCount"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

// StudentStats summarizes one student's attendance. No percentage here;
// the shape mirrors the event stats asymmetrically on purpose.
type StudentStats struct {
	TotalEvents    int `json:"totalEvents"`
	AttendedEvents int `json:"attendedEvents"`
}

// Service coordinates attendance marking and stats.
type Service struct {
	repo     *Repository
	events   *events.Service
	identity *identity.Service
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository, eventsSvc *events.Service, identitySvc *identity.Service) *Service {
	return &Service{repo: repo, events: eventsSvc, identity: identitySvc}
}

// Mark records or corrects a student's attendance for an event.
func (s *Service) Mark(ctx context.Context, eventID, studentID, status string) (string, error) {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return "", err
	}
	student, err := s.identity.GetStudent(ctx, studentID)
	if err != nil {
		return "", err
	}
	if student == nil {
		return "", ErrStudentNotFound
	}
	if evt.CollegeID != student.CollegeID {
		return "", ErrCollegeMismatch
	}
	return s.repo.Upsert(ctx, eventID, studentID, status)
}

// ListForEvent returns an event's marks, failing when the event is absent.
func (s *Service) ListForEvent(ctx context.Context, eventID string) (*events.Event, []Record, error) {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	recs, err := s.repo.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	return evt, recs, nil
}

// ListForStudent returns a student's marks.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]Record, error) {
	return s.repo.ListForStudent(ctx, studentID)
}

// StatsForEvent computes attendance stats, failing when the event is absent.
func (s *Service) StatsForEvent(ctx context.Context, eventID string) (*events.Event, EventStats, error) {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, EventStats{}, err
	}
	total, present, absent, err := s.repo.EventCounts(ctx, eventID)
	if err != nil {
		return nil, EventStats{}, err
	}
	return evt, buildEventStats(total, present, absent), nil
}

// StatsForStudent computes a student's attendance totals.
func (s *Service) StatsForStudent(ctx context.Context, studentID string) (StudentStats, error) {
	totalEvents, attended, err := s.repo.StudentCounts(ctx, studentID)
	if err != nil {
		return StudentStats{}, err
	}
	return StudentStats{TotalEvents: totalEvents, AttendedEvents: attended}, nil
}

func buildEventStats(total, present, absent int) EventStats {
	var pct float64
	if total > 0 {
		pct = round2(float64(present) / float64(total) * 100)
	}
	return EventStats{
		TotalRegistrations:   total,
		PresentCount:         present,
		AbsentCount:          absent,
		AttendancePercentage: pct,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
