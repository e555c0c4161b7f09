package books

import (
	"context"
	"database/sql"
)

// Create inserts a new record and returns it with the store-assigned id.
func Create(ctx context.Context, db *sql.DB, dto CreateBookDTO) (Book, error) {
	const q = `
		INSERT INTO books (title, summary, pages, document, author, author_id, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	b := Book{
		Title:    dto.Title,
		Summary:  dto.Summary,
		Pages:    dto.Pages,
		Document: dto.Document,
		Author:   dto.Author,
		AuthorID: dto.AuthorID,
		Category: dto.Category,
	}
	err := db.QueryRowContext(ctx, q,
		dto.Title, dto.Summary, dto.Pages, dto.Document, dto.Author, dto.AuthorID, dto.Category,
	).Scan(&b.ID)
	if err != nil {
		return Book{}, err
	}
	return b, nil
}
