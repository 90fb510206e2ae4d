package feedback

import (
	"context"
	"errors"
	"math"

	"campusevents/internal/events"
)

// ErrCollegeMismatch signals feedback for an event outside the
// student's college.
var ErrCollegeMismatch = errors.New("students can only submit feedback for events from their college")

// EventStats summarizes one event's feedback.
type EventStats struct {
	AvgRating          float64       `json:"avgRating"`
	TotalFeedback      int           `json:"totalFeedback"`
	MinRating          int           `json:"minRating"`
	MaxRating          int           `json:"maxRating"`
	RatingDistribution []RatingCount `json:"ratingDistribution"`
}

// Service coordinates feedback submission and stats.
type Service struct {
	repo   *Repository
	events *events.Service
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository, eventsSvc *events.Service) *Service {
	return &Service{repo: repo, events: eventsSvc}
}

// Submit records or replaces a student's feedback for an event in their
// college. Rating bounds are enforced at request binding.
func (s *Service) Submit(ctx context.Context, eventID, studentID, studentCollegeID string, rating int, comments string) (string, error) {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return "", err
	}
	if evt.CollegeID != studentCollegeID {
		return "", ErrCollegeMismatch
	}
	return s.repo.Upsert(ctx, eventID, studentID, rating, comments)
}

// ListForEvent returns an event's feedback, failing when the event is absent.
func (s *Service) ListForEvent(ctx context.Context, eventID string) (*events.Event, []Entry, error) {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.repo.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	return evt, entries, nil
}

// ListForStudent returns a student's feedback.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]Entry, error) {
	return s.repo.ListForStudent(ctx, studentID)
}

// StatsForEvent computes feedback stats, failing when the event is absent.
// avgRating is 0 and the distribution empty when no feedback exists.
func (s *Service) StatsForEvent(ctx context.Context, eventID string) (*events.Event, EventStats, error) {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, EventStats{}, err
	}
	avg, total, min, max, err := s.repo.EventAggregates(ctx, eventID)
	if err != nil {
		return nil, EventStats{}, err
	}
	dist, err := s.repo.RatingDistribution(ctx, eventID)
	if err != nil {
		return nil, EventStats{}, err
	}
	st := EventStats{
		TotalFeedback:      total,
		MinRating:          min,
		MaxRating:          max,
		RatingDistribution: dist,
	}
	if avg.Valid {
		st.AvgRating = round2(avg.Float64)
	}
	return evt, st, nil
}

// TopStudents returns the three most active feedback authors.
func (s *Service) TopStudents(ctx context.Context) ([]TopStudent, error) {
	return s.repo.TopStudents(ctx, 3)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
