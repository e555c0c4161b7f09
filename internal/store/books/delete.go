package books

import (
	"context"
	"database/sql"
)

// Delete removes a record permanently. Deleting an unknown id is ErrNotFound.
func Delete(ctx context.Context, db *sql.DB, id int64) error {
	const q = `DELETE FROM books WHERE id = $1;`
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
