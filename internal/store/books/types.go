package books

// Book is one uploaded book record. Author and AuthorID are fixed at
// creation from the uploading user and never change afterwards.
type Book struct {
	ID       int64
	Title    string
	Summary  string
	Pages    string
	Document string // object key of the uploaded file in the blob store
	Author   string
	AuthorID int64
	Category string
}

// The three categories the input form offers. The store itself does not
// enforce membership: category stays free text at the storage layer, so rows
// with other values can exist and simply never show up on the explore page.
const (
	CategoryEducation = "Education"
	CategoryFiction   = "Fiction"
	CategoryScience   = "Science"
)

// Categories returns the fixed input-form category list.
func Categories() []string {
	return []string{CategoryEducation, CategoryFiction, CategoryScience}
}

// CreateBookDTO carries the validated input for a new record.
type CreateBookDTO struct {
	Title    string
	Summary  string
	Pages    string
	Document string
	Author   string
	AuthorID int64
	Category string
}

// UpdateBookDTO carries the validated input for an edit. Ownership fields are
// deliberately absent: an update can never touch them.
type UpdateBookDTO struct {
	Title    string
	Summary  string
	Pages    string
	Document string
	Category string
}

// Shelves is the explore-page partition. A record whose category matches none
// of the three buckets appears nowhere.
type Shelves struct {
	Education []Book
	Fiction   []Book
	Science   []Book
}
