package activity

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Entry is one audited ledger action, written by the worker.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ActorID   string    `json:"actor_id"`
	EventID   string    `json:"event_id"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists the activity trail in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends one entry.
func (r *Repository) Insert(ctx context.Context, kind, actorID, eventID, detail string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, kind, actor_id, event_id, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), kind, actorID, eventID, detail)
	return err
}

// ListRecent returns the newest entries.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, actor_id, event_id, detail, created_at
		FROM activity_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.ActorID, &e.EventID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
