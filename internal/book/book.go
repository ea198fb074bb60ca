package book

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no book exists for the requested ISBN.
var ErrNotFound = errors.New("book not found")

// Book is the canonical catalog record, keyed by its 13-digit ISBN. Text
// fields carry the "N.A" sentinel instead of an empty string when the
// upstream source omits them.
type Book struct {
	ID           string    `json:"id"`
	ISBN         string    `json:"isbn"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Description  string    `json:"description"`
	Genre        string    `json:"genre"`
	Publisher    string    `json:"publisher"`
	Pages        int       `json:"pages"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Repository is the persistence contract for the catalog.
type Repository interface {
	// FindByISBN returns ErrNotFound when the ISBN is not in the catalog.
	FindByISBN(ctx context.Context, isbn string) (*Book, error)
	// Create inserts the book unless a row for its ISBN already exists.
	// Losing the insert race to a concurrent enrichment is not an error.
	Create(ctx context.Context, b *Book) error
	List(ctx context.Context, limit int) ([]Book, error)
}
