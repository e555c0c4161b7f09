package books

import (
	"context"
	"database/sql"
	"errors"
)

const selectCols = `id, title, summary, pages, document, author, author_id, category`

// GetByID fetches a single record. Unknown ids map to ErrNotFound.
func GetByID(ctx context.Context, db *sql.DB, id int64) (Book, error) {
	const q = `SELECT id, title, summary, pages, document, author, author_id, category FROM books WHERE id = $1;`
	var b Book
	err := db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.Summary, &b.Pages, &b.Document, &b.Author, &b.AuthorID, &b.Category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}
