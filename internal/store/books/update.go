package books

import (
	"context"
	"database/sql"
)

// Update replaces every mutable field of an existing record. Author and
// AuthorID are not in the statement at all, so ownership cannot drift.
func Update(ctx context.Context, db *sql.DB, id int64, dto UpdateBookDTO) (Book, error) {
	const q = `
		UPDATE books
		   SET title = $1, summary = $2, pages = $3, document = $4, category = $5
		 WHERE id = $6
		RETURNING id, title, summary, pages, document, author, author_id, category;
	`
	var b Book
	err := db.QueryRowContext(ctx, q,
		dto.Title, dto.Summary, dto.Pages, dto.Document, dto.Category, id,
	).Scan(&b.ID, &b.Title, &b.Summary, &b.Pages, &b.Document, &b.Author, &b.AuthorID, &b.Category)
	if err == sql.ErrNoRows {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}
