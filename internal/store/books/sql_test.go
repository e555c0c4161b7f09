package books_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/openshelf/elibrary/internal/store/books"
)

const cols = "id, title, summary, pages, document, author, author_id, category"

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO books (title, summary, pages, document, author, author_id, category)`,
	)).
		WithArgs("T", "S", "10", "pdfs/key.pdf", "Ann Lee", int64(7), "Fiction").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	b, err := books.Create(context.Background(), db, books.CreateBookDTO{
		Title:    "T",
		Summary:  "S",
		Pages:    "10",
		Document: "pdfs/key.pdf",
		Author:   "Ann Lee",
		AuthorID: 7,
		Category: "Fiction",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.ID != 3 || b.Author != "Ann Lee" || b.AuthorID != 7 {
		t.Fatalf("unexpected book: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(regexp.MustCompile(`,\s*`).Split(cols, -1)).
		AddRow(int64(5), "T", "S", "10", "pdfs/k", "Ann Lee", int64(7), "Science")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM books WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	b, err := books.GetByID(context.Background(), db, 5)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.ID != 5 || b.Category != "Science" {
		t.Fatalf("unexpected book: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM books WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(regexp.MustCompile(`,\s*`).Split(cols, -1)))

	_, err = books.GetByID(context.Background(), db, 404)
	if !errors.Is(err, books.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := books.Delete(context.Background(), db, 9); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = books.Delete(context.Background(), db, 404)
	if !errors.Is(err, books.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListByCategory_Partition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	colNames := regexp.MustCompile(`,\s*`).Split(cols, -1)
	rows := sqlmock.NewRows(colNames).
		AddRow(int64(1), "E1", "s", "1", "d", "A", int64(1), "Education").
		AddRow(int64(2), "F1", "s", "1", "d", "A", int64(1), "Fiction").
		AddRow(int64(3), "S1", "s", "1", "d", "A", int64(1), "Science").
		AddRow(int64(4), "F2", "s", "1", "d", "A", int64(2), "Fiction")

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE category IN ($1, $2, $3) ORDER BY id`)).
		WithArgs("Education", "Fiction", "Science").
		WillReturnRows(rows)

	sh, err := books.ListByCategory(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(sh.Education) != 1 || len(sh.Fiction) != 2 || len(sh.Science) != 1 {
		t.Fatalf("bad partition: edu=%d fic=%d sci=%d",
			len(sh.Education), len(sh.Fiction), len(sh.Science))
	}
	if sh.Fiction[0].Title != "F1" || sh.Fiction[1].Title != "F2" {
		t.Fatalf("fiction order wrong: %+v", sh.Fiction)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	colNames := regexp.MustCompile(`,\s*`).Split(cols, -1)
	rows := sqlmock.NewRows(colNames).
		AddRow(int64(1), "B1", "s", "1", "d", "A", int64(7), "Fiction").
		AddRow(int64(2), "B2", "s", "1", "d", "A", int64(7), "Other")

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE author_id = $1 ORDER BY id`)).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	list, err := books.ListByOwner(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
	// Owner listings include records whatever their category says.
	if list[1].Category != "Other" {
		t.Fatalf("unexpected category: %q", list[1].Category)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdate_DoesNotTouchOwnership(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	colNames := regexp.MustCompile(`,\s*`).Split(cols, -1)
	rows := sqlmock.NewRows(colNames).
		AddRow(int64(5), "New", "NewS", "20", "pdfs/new", "Ann Lee", int64(7), "Education")

	mock.ExpectQuery(regexp.QuoteMeta(
		`SET title = $1, summary = $2, pages = $3, document = $4, category = $5`,
	)).
		WithArgs("New", "NewS", "20", "pdfs/new", "Education", int64(5)).
		WillReturnRows(rows)

	b, err := books.Update(context.Background(), db, 5, books.UpdateBookDTO{
		Title:    "New",
		Summary:  "NewS",
		Pages:    "20",
		Document: "pdfs/new",
		Category: "Education",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Author fields come back from the row untouched by the statement.
	if b.Author != "Ann Lee" || b.AuthorID != 7 {
		t.Fatalf("ownership drifted: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
