// Package catalog serves the book catalog pages: browsing, detail views and
// the ownership-scoped add/edit/delete operations.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/openshelf/elibrary/internal/api/middlewares"
	"github.com/openshelf/elibrary/internal/api/render"
	"github.com/openshelf/elibrary/internal/session"
	"github.com/openshelf/elibrary/internal/store/books"
)

// DocumentStore is the blob store holding uploaded book documents.
type DocumentStore interface {
	Upload(ctx context.Context, objectKey string, body io.Reader, contentType string, contentLength int64) error
	DownloadURL(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type Handler struct {
	DB     *sql.DB
	Docs   DocumentStore
	Render *render.Renderer
	Log    *zap.Logger
}

func New(db *sql.DB, docs DocumentStore, renderer *render.Renderer, log *zap.Logger) *Handler {
	return &Handler{DB: db, Docs: docs, Render: renderer, Log: log}
}

// Home renders the landing page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.Render.Page(w, http.StatusOK, "home.html", render.Data{
		Session: sessionOrNil(r),
		Flash:   render.PopFlash(w, r),
	})
}

// Explore renders the categorized listing.
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	shelves, err := books.ListByCategory(r.Context(), h.DB)
	if err != nil {
		h.Log.Error("list by category", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.Render.Page(w, http.StatusOK, "explore.html", render.Data{
		Session: sessionOrNil(r),
		Payload: shelves,
	})
}

type bookView struct {
	Book        books.Book
	SummaryHTML template.HTML
	DownloadURL string
}

// ViewBook renders the detail page. The stored summary is escaped and its
// line breaks become <br/> tokens; the record itself is never touched.
func (h *Handler) ViewBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "book_id")
	if !ok {
		h.notFound(w, r)
		return
	}
	b, err := books.GetByID(r.Context(), h.DB, id)
	if errors.Is(err, books.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("get book", zap.Int64("book_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := bookView{Book: b, SummaryHTML: SummaryHTML(b.Summary)}
	if b.Document != "" {
		url, err := h.Docs.DownloadURL(r.Context(), b.Document)
		if err != nil {
			h.Log.Warn("presign document", zap.Int64("book_id", id), zap.Error(err))
		} else {
			view.DownloadURL = url
		}
	}

	h.Render.Page(w, http.StatusOK, "view_book.html", render.Data{
		Session: sessionOrNil(r),
		Payload: view,
	})
}

// SummaryHTML escapes the summary and replaces each newline with a <br/>
// markup token, leaving every other character as-is.
func SummaryHTML(summary string) template.HTML {
	escaped := template.HTMLEscapeString(summary)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br/>"))
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.Render.NotFound(w, render.Data{Session: sessionOrNil(r)})
}

func sessionOrNil(r *http.Request) *session.Session {
	if s, ok := middlewares.SessionFrom(r.Context()); ok {
		return &s
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
