package feedback

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Entry is one student's feedback for one event. Enriched fields are
// filled by the list joins.
type Entry struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	StudentID   string    `json:"student_id"`
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	StudentName string    `json:"student_name,omitempty"`
	EventTitle  string    `json:"event_title,omitempty"`
	EventDate   time.Time `json:"event_date,omitempty"`
}

// RatingCount is one bucket of the rating distribution.
type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// TopStudent is one row of the top-students report.
type TopStudent struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	FeedbackCount int     `json:"feedback_count"`
	AvgRating     float64 `json:"avg_rating"`
}

// Repository persists feedback in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert records feedback for a pair, overwriting rating and comments in
// place on a resubmission. Single atomic statement, same as attendance.
func (r *Repository) Upsert(ctx context.Context, eventID, studentID string, rating int, comments string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO feedback (id, event_id, student_id, rating, comments)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, student_id) DO UPDATE
			SET rating = EXCLUDED.rating, comments = EXCLUDED.comments
		RETURNING id
	`, uuid.NewString(), eventID, studentID, rating, comments)
	var id string
	if err := row.Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// ListForEvent returns an event's feedback with student names, newest first.
func (r *Repository) ListForEvent(ctx context.Context, eventID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.event_id, f.student_id, f.rating, f.comments, f.created_at,
		       COALESCE(s.name, '')
		FROM feedback f
		LEFT JOIN students s ON f.student_id = s.id
		WHERE f.event_id = $1
		ORDER BY f.created_at DESC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EventID, &e.StudentID, &e.Rating, &e.Comments, &e.CreatedAt,
			&e.StudentName); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// ListForStudent returns a student's feedback with event fields, newest first.
func (r *Repository) ListForStudent(ctx context.Context, studentID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.event_id, f.student_id, f.rating, f.comments, f.created_at,
		       COALESCE(e.title, ''), e.date
		FROM feedback f
		LEFT JOIN events e ON f.event_id = e.id
		WHERE f.student_id = $1
		ORDER BY f.created_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Entry
	for rows.Next() {
		var (
			e    Entry
			date sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.EventID, &e.StudentID, &e.Rating, &e.Comments, &e.CreatedAt,
			&e.EventTitle, &date); err != nil {
			return nil, err
		}
		if date.Valid {
			e.EventDate = date.Time
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// EventAggregates returns the avg/min/max/total counters for one event.
// avg is invalid when no feedback exists.
func (r *Repository) EventAggregates(ctx context.Context, eventID string) (avg sql.NullFloat64, total, min, max int, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT AVG(rating), COUNT(*), COALESCE(MIN(rating), 0), COALESCE(MAX(rating), 0)
		FROM feedback
		WHERE event_id = $1
	`, eventID)
	err = row.Scan(&avg, &total, &min, &max)
	return avg, total, min, max, err
}

// RatingDistribution returns occurring ratings and their counts, ascending
// by rating.
func (r *Repository) RatingDistribution(ctx context.Context, eventID string) ([]RatingCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rating, COUNT(*)
		FROM feedback
		WHERE event_id = $1
		GROUP BY rating
		ORDER BY rating
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []RatingCount{}
	for rows.Next() {
		var rc RatingCount
		if err := rows.Scan(&rc.Rating, &rc.Count); err != nil {
			return nil, err
		}
		res = append(res, rc)
	}
	return res, rows.Err()
}

// TopStudents ranks students by feedback volume then average rating.
// The LEFT JOIN keeps zero-feedback students eligible.
func (r *Repository) TopStudents(ctx context.Context, limit int) ([]TopStudent, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.email, COUNT(f.id), AVG(f.rating)
		FROM students s
		LEFT JOIN feedback f ON s.id = f.student_id
		GROUP BY s.id, s.name, s.email
		ORDER BY COUNT(f.id) DESC, AVG(f.rating) DESC NULLS LAST
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []TopStudent
	for rows.Next() {
		var (
			ts  TopStudent
			avg sql.NullFloat64
		)
		if err := rows.Scan(&ts.ID, &ts.Name, &ts.Email, &ts.FeedbackCount, &avg); err != nil {
			return nil, err
		}
		if avg.Valid {
			ts.AvgRating = avg.Float64
		}
		res = append(res, ts)
	}
	return res, rows.Err()
}
