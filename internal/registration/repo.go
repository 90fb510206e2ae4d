package registration

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Registration records a student's intent to attend an event. Enriched
// fields are filled by the list joins.
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	StudentID    string    `json:"student_id"`
	CreatedAt    time.Time `json:"created_at"`
	EventTitle   string    `json:"event_title,omitempty"`
	EventType    string    `json:"event_type,omitempty"`
	EventDate    time.Time `json:"event_date,omitempty"`
	StudentName  string    `json:"student_name,omitempty"`
	StudentEmail string    `json:"student_email,omitempty"`
}

// EventCount is one row of the popularity report.
type EventCount struct {
	EventID           string `json:"event_id"`
	Title             string `json:"title"`
	RegistrationCount int    `json:"registration_count"`
}

// Repository persists registrations in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert adds a registration. The unique index on (event_id, student_id)
// makes the duplicate check atomic: no row comes back when the pair exists.
func (r *Repository) Insert(ctx context.Context, eventID, studentID string) (string, bool, error) {
	id := uuid.NewString()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO registrations (id, event_id, student_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, student_id) DO NOTHING
		RETURNING id
	`, id, eventID, studentID)
	var returned string
	if err := row.Scan(&returned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return returned, true, nil
}

// Delete removes a registration, reporting whether a row existed.
func (r *Repository) Delete(ctx context.Context, eventID, studentID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM registrations WHERE event_id = $1 AND student_id = $2
	`, eventID, studentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListForStudent returns a student's registrations with event fields,
// newest event date first.
func (r *Repository) ListForStudent(ctx context.Context, studentID string) ([]Registration, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.event_id, r.student_id, r.created_at,
		       COALESCE(e.title, ''), COALESCE(e.type, ''), e.date
		FROM registrations r
		LEFT JOIN events e ON r.event_id = e.id
		WHERE r.student_id = $1
		ORDER BY e.date DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Registration
	for rows.Next() {
		var (
			reg  Registration
			date sql.NullTime
		)
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.StudentID, &reg.CreatedAt,
			&reg.EventTitle, &reg.EventType, &date); err != nil {
			return nil, err
		}
		if date.Valid {
			reg.EventDate = date.Time
		}
		res = append(res, reg)
	}
	return res, rows.Err()
}

// ListForEvent returns an event's registrations with student fields.
func (r *Repository) ListForEvent(ctx context.Context, eventID string) ([]Registration, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.event_id, r.student_id, r.created_at,
		       COALESCE(s.name, ''), COALESCE(s.email, '')
		FROM registrations r
		LEFT JOIN students s ON r.student_id = s.id
		WHERE r.event_id = $1
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Registration
	for rows.Next() {
		var reg Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.StudentID, &reg.CreatedAt,
			&reg.StudentName, &reg.StudentEmail); err != nil {
			return nil, err
		}
		res = append(res, reg)
	}
	return res, rows.Err()
}

// CountsPerEvent returns registration counts for every event, most
// popular first.
func (r *Repository) CountsPerEvent(ctx context.Context) ([]EventCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.title, COUNT(r.id)
		FROM events e
		LEFT JOIN registrations r ON e.id = r.event_id
		GROUP BY e.id, e.title
		ORDER BY COUNT(r.id) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []EventCount
	for rows.Next() {
		var ec EventCount
		if err := rows.Scan(&ec.EventID, &ec.Title, &ec.RegistrationCount); err != nil {
			return nil, err
		}
		res = append(res, ec)
	}
	return res, rows.Err()
}
