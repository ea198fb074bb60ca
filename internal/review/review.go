package review

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no review matches the given identity.
	ErrNotFound = errors.New("review not found")
	// ErrInvalid marks a submission that fails shape validation (missing
	// fields, rating out of bounds, malformed ISBN).
	ErrInvalid = errors.New("invalid review submission")
	// ErrRejected signals a quality-gate rejection. It is an expected
	// outcome communicated to the caller, not a system fault.
	ErrRejected = errors.New("review does not meet quality standards")
)

// Review is immutable after creation; the only lifecycle operation besides
// Create is a moderator hard delete.
type Review struct {
	ID        string    `json:"id"`
	BookISBN  string    `json:"isbn"`
	Title     string    `json:"reviewTitle"`
	Content   string    `json:"reviewContent"`
	Rating    int       `json:"rating"`
	UserID    string    `json:"userId"`
	UserEmail string    `json:"userEmail"`
	CreatedAt time.Time `json:"createdAt"`
}

// Statistic is a read-only projection over the persisted reviews of one
// book, recomputed from the review rows on every query. Avg carries two
// fraction digits, rounded server-side.
type Statistic struct {
	BookID  string  `json:"bookId"`
	ISBN    string  `json:"isbn"`
	Avg     float64 `json:"avg"`
	Ratings int     `json:"ratings"`
}

type Repository interface {
	Create(ctx context.Context, r *Review) error
	// Delete removes the review row; ErrNotFound when nothing matched.
	Delete(ctx context.Context, isbn, reviewID string) error
	ListAll(ctx context.Context, size int, orderBy string) ([]Review, error)
	Statistics(ctx context.Context) ([]Statistic, error)
}
