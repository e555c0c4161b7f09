package auth_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openshelf/elibrary/internal/api/render"
	"github.com/openshelf/elibrary/internal/auth"
	"github.com/openshelf/elibrary/internal/security/password"
	"github.com/openshelf/elibrary/internal/session"
)

// fakeSessions stands in for the Redis-backed manager: Create sets the
// cookie the way the real one does and records what was stored.
type fakeSessions struct {
	created   []session.Session
	destroyed int
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, s session.Session) error {
	f.created = append(f.created, s)
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "token",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (f *fakeSessions) Destroy(_ context.Context, w http.ResponseWriter, _ *http.Request) {
	f.destroyed++
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1})
}

func newTestHandler(t *testing.T) (*auth.Handler, sqlmock.Sqlmock, *fakeSessions) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	renderer, err := render.New(zap.NewNop())
	require.NoError(t, err)

	sessions := &fakeSessions{}
	return auth.New(auth.NewSQLStore(db), sessions, renderer, zap.NewNop()), mock, sessions
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRegister_MissingFieldsRerendersForm(t *testing.T) {
	h, mock, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Register(rec, postForm("/register/", url.Values{
		"email":      {"a@x.com"},
		"first-name": {"Ann"},
		// password and last-name missing
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be provided")
	assert.Contains(t, rec.Body.String(), "Last name must be provided")
	// The submitted values survive the re-render.
	assert.Contains(t, rec.Body.String(), `value="a@x.com"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Success(t *testing.T) {
	h, mock, _ := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO users (email, first_name, last_name, password_hash)`,
	)).
		WithArgs("a@x.com", "Ann", "Lee", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "first_name", "last_name", "password_hash", "created_at"},
		).AddRow(int64(1), "a@x.com", "Ann", "Lee", "phc", time.Now()))

	rec := httptest.NewRecorder()
	h.Register(rec, postForm("/register/", url.Values{
		"email":      {"a@x.com"},
		"password":   {"pw123456"},
		"first-name": {"Ann"},
		"last-name":  {"Lee"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login/", rec.Header().Get("Location"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmailShowsInlineMessage(t *testing.T) {
	h, mock, _ := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO users (email, first_name, last_name, password_hash)`,
	)).
		WithArgs("a@x.com", "Ann", "Lee", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	rec := httptest.NewRecorder()
	h.Register(rec, postForm("/register/", url.Values{
		"email":      {"a@x.com"},
		"password":   {"pw123456"},
		"first-name": {"Ann"},
		"last-name":  {"Lee"},
	}))

	// Conflict is an inline message on the form, never an HTTP error code.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "already registered")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Success(t *testing.T) {
	h, mock, sessions := newTestHandler(t)

	hash, err := password.Hash("pw123456")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "first_name", "last_name", "password_hash", "created_at"},
		).AddRow(int64(7), "a@x.com", "Ann", "Lee", hash, time.Now()))

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/login/", url.Values{
		"email":    {"a@x.com"},
		"password": {"pw123456"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	require.Len(t, sessions.created, 1)
	assert.Equal(t, int64(7), sessions.created[0].UserID)
	assert.Equal(t, "Ann Lee", sessions.created[0].FullName())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPasswordRedirectsBack(t *testing.T) {
	h, mock, sessions := newTestHandler(t)

	hash, err := password.Hash("the real one")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "first_name", "last_name", "password_hash", "created_at"},
		).AddRow(int64(7), "a@x.com", "Ann", "Lee", hash, time.Now()))

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/login/", url.Values{
		"email":    {"a@x.com"},
		"password": {"not the real one"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login/", rec.Header().Get("Location"))
	assert.Empty(t, sessions.created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmailRedirectsBack(t *testing.T) {
	h, mock, sessions := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/login/", url.Values{
		"email":    {"nobody@x.com"},
		"password": {"whatever1"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login/", rec.Header().Get("Location"))
	assert.Empty(t, sessions.created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogout_DestroysSession(t *testing.T) {
	h, _, sessions := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logout/", nil)
	h.Logout(rec, req)

	assert.Equal(t, 1, sessions.destroyed)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
