package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/events"
	"campusevents/internal/identity"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	identitySvc := identity.NewService(identity.NewRepository(db))
	eventsSvc := events.NewService(events.NewRepository(db), identitySvc)
	return NewService(NewRepository(db), eventsSvc), mock
}

func eventRows(collegeID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "type", "date", "created_by", "college_id", "created_at", "created_by_name",
	}).AddRow("ev-1", "Tech Talk", "desc", "seminar", time.Now(), "admin-1", collegeID, time.Now(), "Admin")
}

func TestSubmitUpsertKeepsRowID(t *testing.T) {
	svc, mock := newTestService(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT e.id, e.title, e.description").WillReturnRows(eventRows("col-1"))
	mock.ExpectQuery("INSERT INTO feedback").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("fb-1"))

	id, err := svc.Submit(ctx, "ev-1", "st-1", "col-1", 4, "good talk")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", id)

	// Resubmitting replaces rating and comments on the same row.
	mock.ExpectQuery("SELECT e.id, e.title, e.description").WillReturnRows(eventRows("col-1"))
	mock.ExpectQuery("INSERT INTO feedback").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("fb-1"))

	id, err = svc.Submit(ctx, "ev-1", "st-1", "col-1", 2, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", id)
}

func TestSubmitWrongCollege(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT e.id, e.title, e.description").WillReturnRows(eventRows("col-1"))

	_, err := svc.Submit(context.Background(), "ev-1", "st-1", "col-2", 5, "")
	assert.ErrorIs(t, err, ErrCollegeMismatch)
}

func TestStatsForEventRounding(t *testing.T) {
	svc, mock := newTestService(t)

	// Ratings 5, 5, 3 average to 4.333..., reported as 4.33.
	mock.ExpectQuery("SELECT e.id, e.title, e.description").WillReturnRows(eventRows("col-1"))
	mock.ExpectQuery("SELECT AVG").
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count", "min", "max"}).
			AddRow(4.333333333, 3, 3, 5))
	mock.ExpectQuery("SELECT rating, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"rating", "count"}).
			AddRow(3, 1).
			AddRow(5, 2))

	_, stats, err := svc.StatsForEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 4.33, stats.AvgRating)
	assert.Equal(t, 3, stats.TotalFeedback)
	assert.Equal(t, 3, stats.MinRating)
	assert.Equal(t, 5, stats.MaxRating)
	assert.Equal(t, []RatingCount{{Rating: 3, Count: 1}, {Rating: 5, Count: 2}}, stats.RatingDistribution)
}

func TestStatsForEventNoFeedback(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT e.id, e.title, e.description").WillReturnRows(eventRows("col-1"))
	mock.ExpectQuery("SELECT AVG").
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count", "min", "max"}).
			AddRow(nil, 0, 0, 0))
	mock.ExpectQuery("SELECT rating, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"rating", "count"}))

	_, stats, err := svc.StatsForEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, float64(0), stats.AvgRating)
	assert.Equal(t, 0, stats.TotalFeedback)
	assert.Empty(t, stats.RatingDistribution)
	assert.NotNil(t, stats.RatingDistribution)
}

func TestTopStudentsZeroFeedbackEligible(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT s.id, s.name, s.email, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "count", "avg"}).
			AddRow("st-1", "Ana", "ana@example.com", 7, 4.5).
			AddRow("st-2", "Ben", "ben@example.com", 7, 4.1).
			AddRow("st-3", "Cal", "cal@example.com", 0, nil))

	top, err := svc.TopStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Ana", top[0].Name)
	assert.Equal(t, "Ben", top[1].Name)
	assert.Equal(t, float64(0), top[2].AvgRating)
}
