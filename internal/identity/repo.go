package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// College is the scoping unit for events and accounts.
type College struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is an admin or student profile. The password hash never leaves
// the repository except through credentialByEmail.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CollegeID string    `json:"college_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Table names for the two disjoint identity spaces.
const (
	tableAdmins   = "admins"
	tableStudents = "students"
)

// Repository persists colleges and accounts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertCollege creates a college and returns it.
func (r *Repository) InsertCollege(ctx context.Context, name, location string) (College, error) {
	col := College{ID: uuid.NewString(), Name: name, Location: location}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO colleges (id, name, location)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, col.ID, col.Name, col.Location)
	if err := row.Scan(&col.CreatedAt); err != nil {
		return College{}, err
	}
	return col, nil
}

// GetCollege returns a college by id, nil when absent.
func (r *Repository) GetCollege(ctx context.Context, id string) (*College, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, location, created_at FROM colleges WHERE id = $1
	`, id)
	var col College
	if err := row.Scan(&col.ID, &col.Name, &col.Location, &col.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &col, nil
}

// ListColleges returns all colleges ordered by name.
func (r *Repository) ListColleges(ctx context.Context) ([]College, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, location, created_at FROM colleges ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []College
	for rows.Next() {
		var col College
		if err := rows.Scan(&col.ID, &col.Name, &col.Location, &col.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, col)
	}
	return res, rows.Err()
}

func (r *Repository) insertAccount(ctx context.Context, table, name, email, passwordHash, collegeID string) (Account, error) {
	acc := Account{ID: uuid.NewString(), Name: name, Email: email, CollegeID: collegeID}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO `+table+` (id, name, email, password, college_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, acc.ID, acc.Name, acc.Email, passwordHash, acc.CollegeID)
	if err := row.Scan(&acc.CreatedAt); err != nil {
		return Account{}, err
	}
	return acc, nil
}

func (r *Repository) getAccount(ctx context.Context, table, id string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, college_id, created_at FROM `+table+` WHERE id = $1
	`, id)
	var acc Account
	if err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.CollegeID, &acc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &acc, nil
}

// credentialByEmail returns the account plus its password hash for login.
func (r *Repository) credentialByEmail(ctx context.Context, table, email string) (*Account, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, college_id, created_at FROM `+table+` WHERE email = $1
	`, email)
	var (
		acc  Account
		hash string
	)
	if err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &hash, &acc.CollegeID, &acc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &acc, hash, nil
}

// InsertAdmin creates an admin account with an already-hashed password.
func (r *Repository) InsertAdmin(ctx context.Context, name, email, passwordHash, collegeID string) (Account, error) {
	return r.insertAccount(ctx, tableAdmins, name, email, passwordHash, collegeID)
}

// InsertStudent creates a student account with an already-hashed password.
func (r *Repository) InsertStudent(ctx context.Context, name, email, passwordHash, collegeID string) (Account, error) {
	return r.insertAccount(ctx, tableStudents, name, email, passwordHash, collegeID)
}

// GetAdmin returns an admin by id, nil when absent.
func (r *Repository) GetAdmin(ctx context.Context, id string) (*Account, error) {
	return r.getAccount(ctx, tableAdmins, id)
}

// GetStudent returns a student by id, nil when absent.
func (r *Repository) GetStudent(ctx context.Context, id string) (*Account, error) {
	return r.getAccount(ctx, tableStudents, id)
}

// AdminCredentialByEmail returns an admin and password hash for login.
func (r *Repository) AdminCredentialByEmail(ctx context.Context, email string) (*Account, string, error) {
	return r.credentialByEmail(ctx, tableAdmins, email)
}

// StudentCredentialByEmail returns a student and password hash for login.
func (r *Repository) StudentCredentialByEmail(ctx context.Context, email string) (*Account, string, error) {
	return r.credentialByEmail(ctx, tableStudents, email)
}
