package identity

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(NewRepository(db)), mock
}

func credentialCols() []string {
	return []string{"id", "name", "email", "password", "college_id", "created_at"}
}

func TestSignupStudent(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, name, email, password, college_id, created_at FROM students").
		WillReturnRows(sqlmock.NewRows(credentialCols()))
	mock.ExpectQuery("SELECT id, name, location, created_at FROM colleges").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "created_at"}).
			AddRow("col-1", "State College", "Springfield", time.Now()))
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	acc, err := svc.SignupStudent(context.Background(), "Ana", "ana@example.com", "hunter22", "col-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", acc.Email)
	assert.NotEmpty(t, acc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, name, email, password, college_id, created_at FROM admins").
		WillReturnRows(sqlmock.NewRows(credentialCols()).
			AddRow("ad-1", "Ada", "ada@example.com", "hash", "col-1", time.Now()))

	_, err := svc.SignupAdmin(context.Background(), "Ada", "ada@example.com", "hunter22", "col-1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupCollegeMissing(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, name, email, password, college_id, created_at FROM students").
		WillReturnRows(sqlmock.NewRows(credentialCols()))
	mock.ExpectQuery("SELECT id, name, location, created_at FROM colleges").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "created_at"}))

	_, err := svc.SignupStudent(context.Background(), "Ana", "ana@example.com", "hunter22", "missing")
	assert.ErrorIs(t, err, ErrCollegeNotFound)
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, mock := newTestService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name, email, password, college_id, created_at FROM students").
		WillReturnRows(sqlmock.NewRows(credentialCols()).
			AddRow("st-1", "Ana", "ana@example.com", string(hash), "col-1", time.Now()))

	acc, err := svc.LoginStudent(context.Background(), "ana@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "st-1", acc.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock := newTestService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name, email, password, college_id, created_at FROM students").
		WillReturnRows(sqlmock.NewRows(credentialCols()).
			AddRow("st-1", "Ana", "ana@example.com", string(hash), "col-1", time.Now()))

	_, err = svc.LoginStudent(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, name, email, password, college_id, created_at FROM admins").
		WillReturnRows(sqlmock.NewRows(credentialCols()))

	_, err := svc.LoginAdmin(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveStudentMissing(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, name, email, college_id, created_at FROM students").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "college_id", "created_at"}))

	ident, err := svc.ResolveStudent(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, ident)
}
