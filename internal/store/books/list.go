package books

import (
	"context"
	"database/sql"
)

// ListByCategory partitions all records into the three fixed shelves by exact
// category match. Records carrying any other category value are excluded from
// the query entirely, so they show up on no shelf.
func ListByCategory(ctx context.Context, db *sql.DB) (Shelves, error) {
	const q = `SELECT ` + selectCols + ` FROM books WHERE category IN ($1, $2, $3) ORDER BY id;`
	rows, err := db.QueryContext(ctx, q, CategoryEducation, CategoryFiction, CategoryScience)
	if err != nil {
		return Shelves{}, err
	}
	defer rows.Close()

	var sh Shelves
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Summary, &b.Pages, &b.Document, &b.Author, &b.AuthorID, &b.Category); err != nil {
			return Shelves{}, err
		}
		switch b.Category {
		case CategoryEducation:
			sh.Education = append(sh.Education, b)
		case CategoryFiction:
			sh.Fiction = append(sh.Fiction, b)
		case CategoryScience:
			sh.Science = append(sh.Science, b)
		}
	}
	return sh, rows.Err()
}

// ListByOwner returns every record owned by ownerID in insertion order.
func ListByOwner(ctx context.Context, db *sql.DB, ownerID int64) ([]Book, error) {
	const q = `SELECT ` + selectCols + ` FROM books WHERE author_id = $1 ORDER BY id;`
	rows, err := db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Summary, &b.Pages, &b.Document, &b.Author, &b.AuthorID, &b.Category); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
