package catalog

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openshelf/elibrary/internal/api/middlewares"
	"github.com/openshelf/elibrary/internal/api/render"
	"github.com/openshelf/elibrary/internal/store/books"
)

// documentPrefix is where uploaded files live in the blob store.
const documentPrefix = "pdfs/"

const maxUploadBytes = 32 << 20

// AddBookPage renders the empty upload form. The {user_id} path segment is
// kept for URL compatibility; authorship always comes from the session.
func (h *Handler) AddBookPage(w http.ResponseWriter, r *http.Request) {
	h.Render.Page(w, http.StatusOK, "add_book.html", render.Data{
		Session:   sessionOrNil(r),
		CSRFToken: middlewares.CSRFToken(r),
	})
}

// AddBook validates the submitted form, stores the document, then persists
// the record with author/author_id taken from the acting session, regardless
// of what the path or form claims. Nothing is persisted on validation failure.
func (h *Handler) AddBook(w http.ResponseWriter, r *http.Request) {
	s, ok := middlewares.SessionFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}

	form, file, header, err := h.parseBookForm(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if file != nil {
		defer file.Close()
	}

	if v := form.Validate(file != nil); !v.Valid() {
		h.Render.Page(w, http.StatusOK, "add_book.html", render.Data{
			Session:   &s,
			Errors:    v.Errors,
			Values:    url.Values(r.MultipartForm.Value),
			CSRFToken: middlewares.CSRFToken(r),
		})
		return
	}

	objectKey, err := h.storeDocument(r, file, header)
	if err != nil {
		h.Log.Error("store document", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	b, err := books.Create(r.Context(), h.DB, books.CreateBookDTO{
		Title:    form.Title,
		Summary:  form.Summary,
		Pages:    form.Pages,
		Document: objectKey,
		Author:   s.FullName(),
		AuthorID: s.UserID,
		Category: form.Category,
	})
	if err != nil {
		_ = h.Docs.Delete(r.Context(), objectKey)
		h.Log.Error("create book", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.Log.Info("book added", zap.Int64("book_id", b.ID), zap.Int64("author_id", s.UserID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditBookPage renders the edit form pre-filled with the stored values.
func (h *Handler) EditBookPage(w http.ResponseWriter, r *http.Request) {
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

	h.Render.Page(w, http.StatusOK, "edit_book.html", render.Data{
		Session:   sessionOrNil(r),
		CSRFToken: middlewares.CSRFToken(r),
		Values: url.Values{
			"title":    {b.Title},
			"summary":  {b.Summary},
			"pages":    {b.Pages},
			"category": {b.Category},
		},
	})
}

// EditBook applies the same validation as AddBook and updates every field
// except author/author_id, which are immutable after creation. Any logged-in
// caller who reaches this route may edit the record; the redirect afterwards
// targets the acting session's contribution list, not the record owner's.
func (h *Handler) EditBook(w http.ResponseWriter, r *http.Request) {
	s, ok := middlewares.SessionFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	id, idOK := pathID(r, "book_id")
	if !idOK {
		h.notFound(w, r)
		return
	}
	prev, err := books.GetByID(r.Context(), h.DB, id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.Log.Error("get book", zap.Int64("book_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	form, file, header, err := h.parseBookForm(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if file != nil {
		defer file.Close()
	}

	if v := form.Validate(file != nil); !v.Valid() {
		h.Render.Page(w, http.StatusOK, "edit_book.html", render.Data{
			Session:   &s,
			Errors:    v.Errors,
			Values:    url.Values(r.MultipartForm.Value),
			CSRFToken: middlewares.CSRFToken(r),
		})
		return
	}

	objectKey, err := h.storeDocument(r, file, header)
	if err != nil {
		h.Log.Error("store document", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if _, err := books.Update(r.Context(), h.DB, id, books.UpdateBookDTO{
		Title:    form.Title,
		Summary:  form.Summary,
		Pages:    form.Pages,
		Document: objectKey,
		Category: form.Category,
	}); err != nil {
		_ = h.Docs.Delete(r.Context(), objectKey)
		if errors.Is(err, books.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.Log.Error("update book", zap.Int64("book_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// The record now points at the new upload; drop the superseded object.
	if prev.Document != "" && prev.Document != objectKey {
		if err := h.Docs.Delete(r.Context(), prev.Document); err != nil {
			h.Log.Warn("delete superseded document",
				zap.Int64("book_id", id), zap.String("object_key", prev.Document), zap.Error(err))
		}
	}

	h.Log.Info("book updated", zap.Int64("book_id", id), zap.Int64("editor_id", s.UserID))
	http.Redirect(w, r, fmt.Sprintf("/contri/%d/", s.UserID), http.StatusSeeOther)
}

// DeleteBook removes a record unconditionally and irreversibly. Like edit,
// it is gated only on having a session, not on owning the record.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "book_id")
	if !ok {
		h.notFound(w, r)
		return
	}
	err := books.Delete(r.Context(), h.DB, id)
	if errors.Is(err, books.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("delete book", zap.Int64("book_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.Log.Info("book deleted", zap.Int64("book_id", id))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type contriPage struct {
	Books   []books.Book
	OwnerID int64
}

// Contri lists one owner's contributions in insertion order. The owner id
// comes from the path; any authenticated caller may look at any owner's list.
func (h *Handler) Contri(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		h.notFound(w, r)
		return
	}
	list, err := books.ListByOwner(r.Context(), h.DB, ownerID)
	if err != nil {
		h.Log.Error("list by owner", zap.Int64("owner_id", ownerID), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.Render.Page(w, http.StatusOK, "contri.html", render.Data{
		Session: sessionOrNil(r),
		Payload: contriPage{Books: list, OwnerID: ownerID},
	})
}

// parseBookForm reads the multipart body and hands back the typed form plus
// the document part, if one arrived. A missing file is a validation concern,
// not a parse error.
func (h *Handler) parseBookForm(r *http.Request) (BookForm, multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return BookForm{}, nil, nil, err
	}
	form := ParseBookForm(url.Values(r.MultipartForm.Value))
	file, header, err := r.FormFile("document")
	if err == http.ErrMissingFile {
		return form, nil, nil, nil
	}
	if err != nil {
		return BookForm{}, nil, nil, err
	}
	return form, file, header, nil
}

// storeDocument uploads the file under the pdfs/ prefix and returns the
// object key the record will reference.
func (h *Handler) storeDocument(r *http.Request, file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectKey := documentPrefix + uuid.NewString() + "-" + filepath.Base(header.Filename)
	if err := h.Docs.Upload(r.Context(), objectKey, file, contentType, header.Size); err != nil {
		return "", err
	}
	return objectKey, nil
}
