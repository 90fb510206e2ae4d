package events

import (
	"context"
	"errors"
	"time"

	"campusevents/internal/identity"
)

var (
	// ErrNotFound signals a missing event.
	ErrNotFound = errors.New("event not found")
	// ErrCollegeNotFound signals an event under a nonexistent college.
	ErrCollegeNotFound = errors.New("college not found")
)

// Service owns the event registry and its college-existence rule.
type Service struct {
	repo     *Repository
	identity *identity.Service
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository, identitySvc *identity.Service) *Service {
	return &Service{repo: repo, identity: identitySvc}
}

// Create validates the college and inserts a new event.
func (s *Service) Create(ctx context.Context, title, description, eventType string, date time.Time, createdBy, collegeID string) (Event, error) {
	college, err := s.identity.GetCollege(ctx, collegeID)
	if err != nil {
		return Event{}, err
	}
	if college == nil {
		return Event{}, ErrCollegeNotFound
	}
	return s.repo.Insert(ctx, Event{
		Title:       title,
		Description: description,
		Type:        eventType,
		Date:        date,
		CreatedBy:   createdBy,
		CollegeID:   collegeID,
	})
}

// Get returns an event or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	evt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if evt == nil {
		return nil, ErrNotFound
	}
	return evt, nil
}

// ListByCollege returns a college's events.
func (s *Service) ListByCollege(ctx context.Context, collegeID string) ([]Event, error) {
	return s.repo.ListByCollege(ctx, collegeID)
}

// ListAll returns every event across colleges.
func (s *Service) ListAll(ctx context.Context) ([]Event, error) {
	return s.repo.ListAll(ctx)
}

// Update replaces an existing event's fields after re-checking the college.
func (s *Service) Update(ctx context.Context, id, title, description, eventType string, date time.Time, collegeID string) (*Event, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	college, err := s.identity.GetCollege(ctx, collegeID)
	if err != nil {
		return nil, err
	}
	if college == nil {
		return nil, ErrCollegeNotFound
	}
	if err := s.repo.Update(ctx, id, title, description, eventType, date, collegeID); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an existing event.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Stats returns the per-event counters, failing when the event is absent.
func (s *Service) Stats(ctx context.Context, id string) (*Event, Stats, error) {
	evt, err := s.Get(ctx, id)
	if err != nil {
		return nil, Stats{}, err
	}
	st, err := s.repo.GetStats(ctx, id)
	if err != nil {
		return nil, Stats{}, err
	}
	return evt, st, nil
}
