package catalog

import (
	"net/url"
	"strings"

	"github.com/openshelf/elibrary/internal/store/books"
	"github.com/openshelf/elibrary/internal/validate"
)

// BookForm is the typed input shared by the add and edit operations. The
// document file travels separately as a multipart part; author fields are
// not accepted from the client at all.
type BookForm struct {
	Title    string
	Summary  string
	Pages    string
	Category string
}

func ParseBookForm(values url.Values) BookForm {
	return BookForm{
		Title:    strings.TrimSpace(values.Get("title")),
		Summary:  values.Get("summary"),
		Pages:    strings.TrimSpace(values.Get("pages")),
		Category: strings.TrimSpace(values.Get("category")),
	}
}

// Validate applies the required/length checks. hasDocument tells whether a
// file part arrived; pages intentionally has no numeric check, it is stored
// as text.
func (f BookForm) Validate(hasDocument bool) *validate.Validator {
	v := validate.New()
	v.Check(validate.NotBlank(f.Title), "title", "Title must be provided")
	v.Check(validate.MaxRunes(f.Title, 150), "title", "Title must be at most 150 characters")
	v.Check(validate.NotBlank(f.Summary), "summary", "Summary must be provided")
	v.Check(validate.MaxRunes(f.Summary, 2000), "summary", "Summary must be at most 2000 characters")
	v.Check(validate.NotBlank(f.Pages), "pages", "Pages must be provided")
	v.Check(validate.MaxRunes(f.Pages, 100), "pages", "Pages must be at most 100 characters")
	v.Check(hasDocument, "document", "A document file must be provided")
	v.Check(validate.NotBlank(f.Category), "category", "Category must be provided")
	v.Check(!validate.NotBlank(f.Category) || validate.In(f.Category, books.Categories()...),
		"category", "Category must be Education, Fiction or Science")
	return v
}
