// Package session implements server-side sessions: a signed cookie carries a
// session id, the session record itself lives in Redis under sess:<id> with a
// TTL. Logout deletes the Redis key, which kills the cookie with it.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const CookieName = "elibrary_session"

var ErrNoSession = errors.New("no active session")

// Session is the authenticated identity attached to a request.
type Session struct {
	ID        string `json:"-"`
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName is the display name recorded as a book's author at creation time.
func (s Session) FullName() string { return s.FirstName + " " + s.LastName }

type Manager struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewManager(rdb *redis.Client) *Manager {
	ttl := 12 * time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}
	return &Manager{RDB: rdb, TTL: ttl}
}

// Create persists a new session and sets the cookie on w.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, s Session) error {
	sid, err := randSID()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := m.RDB.Set(ctx, key(sid), payload, m.TTL).Err(); err != nil {
		return err
	}
	token, err := signToken(strconv.FormatInt(s.UserID, 10), sid, m.TTL)
	if err != nil {
		_ = m.RDB.Del(ctx, key(sid)).Err()
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.TTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Get resolves the request's cookie to a live session. A bad signature, a
// missing cookie, or an expired/deleted Redis record all yield ErrNoSession.
func (m *Manager) Get(ctx context.Context, r *http.Request) (Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Session{}, ErrNoSession
	}
	claims, err := parseToken(c.Value)
	if err != nil {
		return Session{}, ErrNoSession
	}
	raw, err := m.RDB.Get(ctx, key(claims.ID)).Bytes()
	if err != nil {
		return Session{}, ErrNoSession
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, ErrNoSession
	}
	if claims.Subject != strconv.FormatInt(s.UserID, 10) {
		return Session{}, ErrNoSession
	}
	s.ID = claims.ID
	return s, nil
}

// Destroy removes the server-side session and expires the cookie. It always
// succeeds from the caller's point of view.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if claims, err := parseToken(c.Value); err == nil {
			_ = m.RDB.Del(ctx, key(claims.ID)).Err()
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func key(sid string) string { return "sess:" + sid }

func randSID() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
