package report

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/attendance"
	"campusevents/internal/events"
	"campusevents/internal/feedback"
	"campusevents/internal/identity"
	"campusevents/internal/registration"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	identitySvc := identity.NewService(identity.NewRepository(db))
	eventsSvc := events.NewService(events.NewRepository(db), identitySvc)
	regSvc := registration.NewService(registration.NewRepository(db), eventsSvc)
	attSvc := attendance.NewService(attendance.NewRepository(db), eventsSvc, identitySvc)
	fbSvc := feedback.NewService(feedback.NewRepository(db), eventsSvc)
	return NewService(eventsSvc, regSvc, attSvc, fbSvc, identitySvc), mock
}

func eventListRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "type", "date", "created_by", "college_id", "created_at", "created_by_name",
	})
	for _, id := range ids {
		rows.AddRow(id, "Event "+id, "", "seminar", time.Now(), "ad-1", "col-1", time.Now(), "Asha")
	}
	return rows
}

func statsRows(reg, att int, avg float64, fb int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"reg", "att", "avg", "fb"}).AddRow(reg, att, avg, fb)
}

func TestDashboardAveragesPerEventRatings(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("WHERE e.college_id").
		WithArgs("col-1").
		WillReturnRows(eventListRows("ev-1", "ev-2"))

	// Per-event stats: a fetch of the event then its counters.
	mock.ExpectQuery("WHERE e.id").WithArgs("ev-1").WillReturnRows(eventListRows("ev-1"))
	mock.ExpectQuery("FROM registrations WHERE event_id").
		WithArgs("ev-1").
		WillReturnRows(statsRows(10, 5, 4, 2))
	mock.ExpectQuery("WHERE e.id").WithArgs("ev-2").WillReturnRows(eventListRows("ev-2"))
	mock.ExpectQuery("FROM registrations WHERE event_id").
		WithArgs("ev-2").
		WillReturnRows(statsRows(2, 1, 0, 0))

	mock.ExpectQuery("SELECT s.id, s.name, s.email").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "count", "avg"}).
			AddRow("st-1", "Ravi", "ravi@x.edu", 2, 4.5))

	d, err := svc.Dashboard(context.Background(), "col-1")
	require.NoError(t, err)

	assert.Equal(t, 2, d.TotalEvents)
	assert.Equal(t, 12, d.TotalRegistrations)
	assert.Equal(t, 6, d.TotalAttendance)
	assert.Equal(t, 2, d.TotalFeedback)
	// Mean of per-event averages, not a global average: (4 + 0) / 2.
	assert.Equal(t, 2.0, d.AvgRating)
	assert.Len(t, d.Events, 2)
	require.Len(t, d.TopStudents, 1)
	assert.Equal(t, "Ravi", d.TopStudents[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardCapsEventsAtFive(t *testing.T) {
	svc, mock := newTestService(t)

	ids := []string{"ev-1", "ev-2", "ev-3", "ev-4", "ev-5", "ev-6"}
	mock.ExpectQuery("WHERE e.college_id").
		WithArgs("col-1").
		WillReturnRows(eventListRows(ids...))
	for _, id := range ids {
		mock.ExpectQuery("WHERE e.id").WithArgs(id).WillReturnRows(eventListRows(id))
		mock.ExpectQuery("FROM registrations WHERE event_id").
			WithArgs(id).
			WillReturnRows(statsRows(1, 0, 0, 0))
	}
	mock.ExpectQuery("SELECT s.id, s.name, s.email").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "count", "avg"}))

	d, err := svc.Dashboard(context.Background(), "col-1")
	require.NoError(t, err)

	assert.Equal(t, 6, d.TotalEvents)
	assert.Len(t, d.Events, 5)
	assert.Equal(t, "ev-1", d.Events[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardEmptyCollege(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("WHERE e.college_id").
		WithArgs("col-9").
		WillReturnRows(eventListRows())
	mock.ExpectQuery("SELECT s.id, s.name, s.email").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "count", "avg"}))

	d, err := svc.Dashboard(context.Background(), "col-9")
	require.NoError(t, err)

	assert.Zero(t, d.TotalEvents)
	assert.Zero(t, d.AvgRating)
	assert.Empty(t, d.Events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentReport(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM students WHERE id").
		WithArgs("st-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "college_id", "created_at"}).
			AddRow("st-1", "Ravi", "ravi@x.edu", "col-1", time.Now()))
	mock.ExpectQuery("FROM registrations WHERE student_id").
		WithArgs("st-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "attended"}).AddRow(4, 3))

	rep, err := svc.Student(context.Background(), "st-1")
	require.NoError(t, err)

	assert.Equal(t, "Ravi", rep.Student.Name)
	assert.Equal(t, 4, rep.Stats.TotalEvents)
	assert.Equal(t, 3, rep.Stats.AttendedEvents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentReportMissing(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM students WHERE id").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "college_id", "created_at"}))

	_, err := svc.Student(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
