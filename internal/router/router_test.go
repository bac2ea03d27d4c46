package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/authz"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/handler"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/repository"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/service"
)

const roleQuery = "SELECT role FROM users WHERE email = $1 LIMIT 1"

type fixture struct {
	engine *gin.Engine
	mock   sqlmock.Sqlmock
	tokens *service.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqlxdb := sqlx.NewDb(db, "sqlmock")

	users := repository.NewUserRepository(sqlxdb)
	classes := repository.NewClassRepository(sqlxdb)
	metrics := service.NewMetricsService()
	tokens := service.NewTokenService(nil, nil, service.TokenConfig{Secret: "secret", Expiry: time.Hour})
	roles := service.NewRoleService(users, time.Second, nil)
	catalog := service.CatalogConfig{}

	h := Handlers{
		Auth:    handler.NewAuthHandler(tokens),
		Users:   handler.NewUserHandler(service.NewUserService(users, roles, nil, nil, nil)),
		Classes: handler.NewClassHandler(service.NewClassService(classes, nil, nil, nil, nil, catalog), service.NewInstructorService(repository.NewInstructorRepository(sqlxdb), nil, catalog)),
		Enrollment: handler.NewEnrollmentHandler(service.NewSelectionService(
			repository.NewSelectionRepository(sqlxdb), classes, metrics, nil, nil)),
		Payments: handler.NewPaymentHandler(service.NewPaymentService(
			repository.NewPaymentRepository(sqlxdb), nil, nil, nil, metrics, nil, nil, service.PaymentConfig{})),
		Metrics: handler.NewMetricsHandler(metrics, map[string]handler.Pinger{"database": sqlxdb}, nil),
	}
	engine := New(authz.NewGate(tokens, roles), h, metrics, zap.NewNop(), Options{RequestTimeout: time.Second})
	return &fixture{engine: engine, mock: mock, tokens: tokens}
}

func (f *fixture) do(t *testing.T, method, target, email string) *httptest.ResponseRecorder {
	t.Helper()
	return f.doJSON(t, method, target, email, "")
}

func (f *fixture) doJSON(t *testing.T, method, target, email, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		token, err := f.tokens.Issue(context.Background(), dto.IssueTokenRequest{Email: email})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token.Token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) expectRole(email string, role interface{}) {
	f.mock.ExpectQuery(regexp.QuoteMeta(roleQuery)).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(role))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAnonymousCallersNeverReachStorage(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{
		"/dashboard/user/selected-classes",
		"/dashboard/user/payments",
		"/dashboard/instructor/classes",
		"/dashboard/admin/users",
		"/users?email=a@x.com",
		"/users/admin/a@x.com",
	} {
		w := f.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRoleGuards(t *testing.T) {
	f := newFixture(t)

	f.expectRole("i@x.com", "instructor")
	w := f.do(t, http.MethodGet, "/dashboard/user/selected-classes?email=i@x.com", "i@x.com")
	assert.Equal(t, http.StatusForbidden, w.Code)

	f.expectRole("a@x.com", nil)
	w = f.do(t, http.MethodGet, "/dashboard/admin/users", "a@x.com")
	assert.Equal(t, http.StatusForbidden, w.Code)

	f.expectRole("a@x.com", nil)
	w = f.do(t, http.MethodGet, "/dashboard/user/selected-classes?email=b@x.com", "a@x.com")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRoleCheckForeignTargetDegrades(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/users/admin/boss@x.com", "a@x.com")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"admin":false}}`, w.Body.String())
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAdminListsUsers(t *testing.T) {
	f := newFixture(t)

	f.expectRole("admin@x.com", "admin")
	now := time.Now()
	f.mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "photo_url", "role", "created_at", "updated_at"}).
			AddRow("u1", "a@x.com", "Ada", "", nil, now, now))

	w := f.do(t, http.MethodGet, "/dashboard/admin/users", "admin@x.com")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@x.com"`)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPublicCatalog(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectQuery("SELECT (.+) FROM classes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_name", "image_url", "instructor_name", "instructor_email", "price", "available_seats", "students", "status", "feedback", "created_at", "updated_at"}))

	w := f.do(t, http.MethodGet, "/classes?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
	assert.Contains(t, w.Body.String(), `"cache_hit":false`)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestReadiness(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMalformedPathIDsAreNotFound(t *testing.T) {
	f := newFixture(t)

	f.expectRole("a@x.com", nil)
	w := f.do(t, http.MethodDelete, "/dashboard/user/selected-classes/abc", "a@x.com")
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, tc := range []struct {
		target string
		body   string
	}{
		{"/dashboard/admin/users/abc/role", `{"role":"instructor"}`},
		{"/dashboard/admin/classes/abc/status", `{"status":"approved"}`},
		{"/dashboard/admin/classes/abc/feedback", `{"feedback":"needs a syllabus"}`},
	} {
		f.expectRole("admin@x.com", "admin")
		w := f.doJSON(t, http.MethodPatch, tc.target, "admin@x.com", tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.target)
	}

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUserListingsFollowEmailQuery(t *testing.T) {
	f := newFixture(t)

	f.expectRole("a@x.com", nil)
	w := f.do(t, http.MethodGet, "/dashboard/user/payments", "a@x.com")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())

	f.expectRole("a@x.com", nil)
	w = f.do(t, http.MethodGet, "/dashboard/user/enrolled-classes?email=b@x.com", "a@x.com")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, f.mock.ExpectationsWereMet())
}
