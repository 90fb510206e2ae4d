package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/activity"
	"campusevents/internal/attendance"
	"campusevents/internal/auth"
	"campusevents/internal/events"
	"campusevents/internal/feedback"
	"campusevents/internal/identity"
	"campusevents/internal/queue"
	"campusevents/internal/registration"
	"campusevents/internal/report"
)

const (
	testIssuer = "campusevents-test"
	testKey    = "test-signing-key"
)

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	identitySvc := identity.NewService(identity.NewRepository(db))
	eventsSvc := events.NewService(events.NewRepository(db), identitySvc)
	regSvc := registration.NewService(registration.NewRepository(db), eventsSvc)
	attSvc := attendance.NewService(attendance.NewRepository(db), eventsSvc, identitySvc)
	fbSvc := feedback.NewService(feedback.NewRepository(db), eventsSvc)
	reportSvc := report.NewService(eventsSvc, regSvc, attSvc, fbSvc, identitySvc)

	h := New(Deps{
		Identity:      identitySvc,
		Events:        eventsSvc,
		Registrations: regSvc,
		Attendance:    attSvc,
		Feedback:      fbSvc,
		Reports:       reportSvc,
		Activity:      activity.NewRepository(db),
		Queue:         queue.NewInMemory(16),
		JWTIssuer:     testIssuer,
		JWTKey:        testKey,
		TokenTTL:      time.Hour,
	})

	r := gin.New()
	h.Routes(r, auth.NewGate(testKey, testIssuer, identitySvc))
	return r, mock
}

func studentToken(t *testing.T, id string) string {
	t.Helper()
	token, _, err := auth.Issue(id, auth.RoleStudent, testIssuer, testKey, time.Hour)
	require.NoError(t, err)
	return token
}

func expectResolveStudent(mock sqlmock.Sqlmock, id, collegeID string) {
	mock.ExpectQuery("FROM students WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "college_id", "created_at"}).
			AddRow(id, "Ravi", "ravi@x.edu", collegeID, time.Now()))
}

func expectEvent(mock sqlmock.Sqlmock, id, collegeID string) {
	mock.ExpectQuery("WHERE e.id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "type", "date", "created_by", "college_id", "created_at", "created_by_name",
		}).AddRow(id, "Tech Talk", "", "seminar", time.Now(), "ad-1", collegeID, time.Now(), "Asha"))
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRouteRejectsMissingToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/reports/dashboard", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no token provided")
}

func TestAdminRouteRejectsGarbageToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/reports/dashboard", "not-a-jwt", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestStudentTokenCannotReachAdminRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/reports/dashboard", studentToken(t, "st-1"), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "admin privileges required")
}

func TestRegisterForEvent(t *testing.T) {
	r, mock := newTestRouter(t)

	expectResolveStudent(mock, "st-1", "col-1")
	expectEvent(mock, "ev-1", "col-1")
	mock.ExpectQuery("INSERT INTO registrations").
		WithArgs(sqlmock.AnyArg(), "ev-1", "st-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-1"))

	w := do(r, http.MethodPost, "/api/registrations/ev-1", studentToken(t, "st-1"), "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"registrationId":"reg-1"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateReturns400(t *testing.T) {
	r, mock := newTestRouter(t)

	expectResolveStudent(mock, "st-1", "col-1")
	expectEvent(mock, "ev-1", "col-1")
	mock.ExpectQuery("INSERT INTO registrations").
		WithArgs(sqlmock.AnyArg(), "ev-1", "st-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := do(r, http.MethodPost, "/api/registrations/ev-1", studentToken(t, "st-1"), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterOutsideCollegeReturns403(t *testing.T) {
	r, mock := newTestRouter(t)

	expectResolveStudent(mock, "st-1", "col-1")
	expectEvent(mock, "ev-9", "col-2")

	w := do(r, http.MethodPost, "/api/registrations/ev-9", studentToken(t, "st-1"), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "their college")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUnknownEventReturns404(t *testing.T) {
	r, mock := newTestRouter(t)

	expectResolveStudent(mock, "st-1", "col-1")
	mock.ExpectQuery("WHERE e.id").
		WithArgs("ev-gone").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "type", "date", "created_by", "college_id", "created_at", "created_by_name",
		}))

	w := do(r, http.MethodPost, "/api/registrations/ev-gone", studentToken(t, "st-1"), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithoutRegistrationReturns404(t *testing.T) {
	r, mock := newTestRouter(t)

	expectResolveStudent(mock, "st-1", "col-1")
	mock.ExpectExec("DELETE FROM registrations").
		WithArgs("ev-1", "st-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := do(r, http.MethodDelete, "/api/registrations/ev-1", studentToken(t, "st-1"), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "registration not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRatingOutOfRange(t *testing.T) {
	r, mock := newTestRouter(t)

	expectResolveStudent(mock, "st-1", "col-1")

	w := do(r, http.MethodPost, "/api/feedback/ev-1", studentToken(t, "st-1"), `{"rating": 9}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCollegeValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/colleges", "", `{"name": "NIT"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
	assert.Contains(t, w.Body.String(), "errors")
}

func TestLoginWrongPasswordReturns400(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("FROM students WHERE email").
		WithArgs("ravi@x.edu").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "college_id", "created_at"}))

	w := do(r, http.MethodPost, "/api/auth/student/login", "",
		`{"email": "ravi@x.edu", "password": "wrong-pass"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}
