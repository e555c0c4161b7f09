package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/openshelf/elibrary/internal/session"
)

// User is a registered identity. The email doubles as the login handle.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// ErrEmailTaken signals a registration attempt with an already-used handle.
var ErrEmailTaken = errors.New("email already registered")

// UserStore abstracts the user directory so handlers stay SQL-free.
type UserStore interface {
	CreateUser(ctx context.Context, email, firstName, lastName, passwordHash string) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error
}

// SessionManager abstracts the session lifecycle the same way UserStore
// abstracts the user directory. *session.Manager is the production
// implementation.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, s session.Session) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request)
}
