package events

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event is an admin-created happening scoped to one college.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Date          time.Time `json:"date"`
	CreatedBy     string    `json:"created_by"`
	CollegeID     string    `json:"college_id"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CollegeName   string    `json:"college_name,omitempty"`
}

// Stats are the per-event counters the dashboard sums over.
type Stats struct {
	RegistrationCount int     `json:"registrationCount"`
	AttendanceCount   int     `json:"attendanceCount"`
	AvgRating         float64 `json:"avgRating"`
	FeedbackCount     int     `json:"feedbackCount"`
}

// Repository persists events in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new event and returns it.
func (r *Repository) Insert(ctx context.Context, evt Event) (Event, error) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO events (id, title, description, type, date, created_by, college_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, evt.ID, evt.Title, evt.Description, evt.Type, evt.Date, evt.CreatedBy, evt.CollegeID)
	if err := row.Scan(&evt.CreatedAt); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// Get returns an event with its creator name, nil when absent.
func (r *Repository) Get(ctx context.Context, id string) (*Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT e.id, e.title, e.description, e.type, e.date, e.created_by, e.college_id, e.created_at,
		       COALESCE(a.name, '')
		FROM events e
		LEFT JOIN admins a ON e.created_by = a.id
		WHERE e.id = $1
	`, id)
	var evt Event
	if err := row.Scan(&evt.ID, &evt.Title, &evt.Description, &evt.Type, &evt.Date,
		&evt.CreatedBy, &evt.CollegeID, &evt.CreatedAt, &evt.CreatedByName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &evt, nil
}

// ListByCollege returns a college's events, newest date first.
func (r *Repository) ListByCollege(ctx context.Context, collegeID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.title, e.description, e.type, e.date, e.created_by, e.college_id, e.created_at,
		       COALESCE(a.name, '')
		FROM events e
		LEFT JOIN admins a ON e.created_by = a.id
		WHERE e.college_id = $1
		ORDER BY e.date DESC
	`, collegeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows, false)
}

// ListAll returns every event with creator and college names, newest date first.
func (r *Repository) ListAll(ctx context.Context) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.title, e.description, e.type, e.date, e.created_by, e.college_id, e.created_at,
		       COALESCE(a.name, ''), COALESCE(c.name, '')
		FROM events e
		LEFT JOIN admins a ON e.created_by = a.id
		LEFT JOIN colleges c ON e.college_id = c.id
		ORDER BY e.date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows, true)
}

func scanEvents(rows *sql.Rows, withCollege bool) ([]Event, error) {
	var res []Event
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.Title, &evt.Description, &evt.Type, &evt.Date,
			&evt.CreatedBy, &evt.CollegeID, &evt.CreatedAt, &evt.CreatedByName}
		if withCollege {
			dest = append(dest, &evt.CollegeName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		res = append(res, evt)
	}
	return res, rows.Err()
}

// Update replaces the mutable fields of an event.
func (r *Repository) Update(ctx context.Context, id, title, description, eventType string, date time.Time, collegeID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET title = $2, description = $3, type = $4, date = $5, college_id = $6
		WHERE id = $1
	`, id, title, description, eventType, date, collegeID)
	return err
}

// Delete removes an event; registrations, attendance and feedback cascade.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// GetStats returns the registration/attendance/feedback counters for one event.
func (r *Repository) GetStats(ctx context.Context, id string) (Stats, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM registrations WHERE event_id = $1),
			(SELECT COUNT(*) FROM attendance WHERE event_id = $1 AND status = 'present'),
			(SELECT COALESCE(AVG(rating), 0) FROM feedback WHERE event_id = $1),
			(SELECT COUNT(*) FROM feedback WHERE event_id = $1)
	`, id)
	var st Stats
	if err := row.Scan(&st.RegistrationCount, &st.AttendanceCount, &st.AvgRating, &st.FeedbackCount); err != nil {
		return Stats{}, err
	}
	return st, nil
}
