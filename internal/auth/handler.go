package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/openshelf/elibrary/internal/api/middlewares"
	"github.com/openshelf/elibrary/internal/api/render"
	"github.com/openshelf/elibrary/internal/security/password"
	"github.com/openshelf/elibrary/internal/session"
)

// Handler serves the registration, login and logout routes.
type Handler struct {
	Users    UserStore
	Sessions SessionManager
	Render   *render.Renderer
	Log      *zap.Logger
}

func New(users UserStore, sessions SessionManager, renderer *render.Renderer, log *zap.Logger) *Handler {
	return &Handler{Users: users, Sessions: sessions, Render: renderer, Log: log}
}

// RegisterPage renders the empty registration form.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.Render.Page(w, http.StatusOK, "register.html", render.Data{
		Flash:     render.PopFlash(w, r),
		CSRFToken: middlewares.CSRFToken(r),
	})
}

// Register creates a new identity. A duplicate handle re-renders the form
// with an inline message rather than an HTTP error.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := ParseRegisterForm(r.PostForm)

	if v := form.Validate(); !v.Valid() {
		h.Render.Page(w, http.StatusOK, "register.html", render.Data{
			Errors:    v.Errors,
			Values:    r.PostForm,
			CSRFToken: middlewares.CSRFToken(r),
		})
		return
	}

	hash, err := password.Hash(form.Password)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	u, err := h.Users.CreateUser(r.Context(), form.Email, form.FirstName, form.LastName, hash)
	if errors.Is(err, ErrEmailTaken) {
		h.Render.Page(w, http.StatusOK, "register.html", render.Data{
			Flash:     "A user with this email is already registered",
			Values:    r.PostForm,
			CSRFToken: middlewares.CSRFToken(r),
		})
		return
	}
	if err != nil {
		h.Log.Error("create user", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.Log.Info("user registered", zap.Int64("user_id", u.ID))
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

// LoginPage renders the login form, surfacing any pending flash message.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Render.Page(w, http.StatusOK, "login.html", render.Data{
		Flash:     render.PopFlash(w, r),
		CSRFToken: middlewares.CSRFToken(r),
	})
}

// Login authenticates the caller and establishes a session. Credential
// failures flash a message and bounce back to the login page; nothing about
// which half was wrong is ever revealed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := ParseLoginForm(r.PostForm)

	if v := form.Validate(); !v.Valid() {
		h.Render.Page(w, http.StatusOK, "login.html", render.Data{
			Errors:    v.Errors,
			Values:    r.PostForm,
			CSRFToken: middlewares.CSRFToken(r),
		})
		return
	}

	u, err := h.Users.FindUserByEmail(r.Context(), form.Email)
	if err != nil {
		h.rejectLogin(w, r)
		return
	}
	ok, needsRehash, err := password.Verify(form.Password, u.PasswordHash)
	if err != nil || !ok {
		h.rejectLogin(w, r)
		return
	}
	if needsRehash {
		if newHash, err := password.Hash(form.Password); err == nil {
			_ = h.Users.UpdatePasswordHash(r.Context(), u.ID, newHash)
		}
	}

	err = h.Sessions.Create(r.Context(), w, session.Session{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
	if err != nil {
		h.Log.Error("create session", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.Log.Info("user logged in", zap.Int64("user_id", u.ID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) rejectLogin(w http.ResponseWriter, r *http.Request) {
	render.SetFlash(w, "Invalid login details")
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

// Logout destroys the session unconditionally and returns to the home page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
