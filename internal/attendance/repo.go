package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Statuses an attendance row can hold.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Record is one attendance mark. Enriched fields are filled by the
// list joins.
type Record struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	StudentID    string    `json:"student_id"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	StudentName  string    `json:"student_name,omitempty"`
	StudentEmail string    `json:"student_email,omitempty"`
	EventTitle   string    `json:"event_title,omitempty"`
	EventDate    time.Time `json:"event_date,omitempty"`
}

// Repository persists attendance marks in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert marks attendance for a pair. A second mark overwrites the status
// in place and returns the surviving row's id; the unique index keeps this
// a single atomic statement.
func (r *Repository) Upsert(ctx context.Context, eventID, studentID, status string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, event_id, student_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, student_id) DO UPDATE SET status = EXCLUDED.status
		RETURNING id
	`, uuid.NewString(), eventID, studentID, status)
	var id string
	if err := row.Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// ListForEvent returns an event's marks with student fields.
func (r *Repository) ListForEvent(ctx context.Context, eventID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.event_id, a.student_id, a.status, a.created_at,
		       COALESCE(s.name, ''), COALESCE(s.email, '')
		FROM attendance a
		LEFT JOIN students s ON a.student_id = s.id
		WHERE a.event_id = $1
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.StudentID, &rec.Status, &rec.CreatedAt,
			&rec.StudentName, &rec.StudentEmail); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// ListForStudent returns a student's marks with event fields, newest event
// date first.
func (r *Repository) ListForStudent(ctx context.Context, studentID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.event_id, a.student_id, a.status, a.created_at,
		       COALESCE(e.title, ''), e.date
		FROM attendance a
		LEFT JOIN events e ON a.event_id = e.id
		WHERE a.student_id = $1
		ORDER BY e.date DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		var (
			rec  Record
			date sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.StudentID, &rec.Status, &rec.CreatedAt,
			&rec.EventTitle, &date); err != nil {
			return nil, err
		}
		if date.Valid {
			rec.EventDate = date.Time
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// EventCounts returns the raw counters behind an event's attendance stats.
// The total comes from registrations so no-shows count against it.
func (r *Repository) EventCounts(ctx context.Context, eventID string) (total, present, absent int, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM registrations WHERE event_id = $1),
			(SELECT COUNT(*) FROM attendance WHERE event_id = $1 AND status = 'present'),
			(SELECT COUNT(*) FROM attendance WHERE event_id = $1 AND status = 'absent')
	`, eventID)
	err = row.Scan(&total, &present, &absent)
	return total, present, absent, err
}

// StudentCounts returns a student's registration and present-mark totals.
func (r *Repository) StudentCounts(ctx context.Context, studentID string) (totalEvents, attended int, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM registrations WHERE student_id = $1),
			(SELECT COUNT(*) FROM attendance WHERE student_id = $1 AND status = 'present')
	`, studentID)
	err = row.Scan(&totalEvents, &attended)
	return totalEvents, attended, err
}
