package registration

import (
	"context"
	"errors"

	"campusevents/internal/events"
)

var (
	// ErrDuplicate signals a second registration for the same pair;
	// registering is intentionally non-idempotent.
	ErrDuplicate = errors.New("student is already registered for this event")
	// ErrNotRegistered signals a cancel with no matching registration.
	ErrNotRegistered = errors.New("registration not found")
	// ErrCollegeMismatch signals a student acting outside their college.
	ErrCollegeMismatch = errors.New("students can only register for events from their college")
)

// Service enforces the one-registration-per-pair and college-scoping rules.
type Service struct {
	repo   *Repository
	events *events.Service
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository, eventsSvc *events.Service) *Service {
	return &Service{repo: repo, events: eventsSvc}
}

// Register records a student's registration for an event in their college.
func (s *Service) Register(ctx context.Context, eventID, studentID, studentCollegeID string) (string, error) {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return "", err
	}
	if evt.CollegeID != studentCollegeID {
		return "", ErrCollegeMismatch
	}
	id, inserted, err := s.repo.Insert(ctx, eventID, studentID)
	if err != nil {
		return "", err
	}
	if !inserted {
		return "", ErrDuplicate
	}
	return id, nil
}

// Cancel deletes the student's registration for an event.
func (s *Service) Cancel(ctx context.Context, eventID, studentID string) error {
	deleted, err := s.repo.Delete(ctx, eventID, studentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotRegistered
	}
	return nil
}

// ListForStudent returns the student's registrations.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]Registration, error) {
	return s.repo.ListForStudent(ctx, studentID)
}

// ListForEvent returns an event's registrations, failing when the event
// is absent.
func (s *Service) ListForEvent(ctx context.Context, eventID string) (*events.Event, []Registration, error) {
	evt, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	regs, err := s.repo.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	return evt, regs, nil
}

// CountsPerEvent backs the popularity report.
func (s *Service) CountsPerEvent(ctx context.Context) ([]EventCount, error) {
	return s.repo.CountsPerEvent(ctx)
}
