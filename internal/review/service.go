package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"bookreviews/internal/book"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var isbnPattern = regexp.MustCompile(`^\d{13}$`)

// CreateReviewRequest is the submission shape accepted on the write path.
// Shape validation happens before the quality gate is ever consulted.
type CreateReviewRequest struct {
	Title   string `json:"reviewTitle" validate:"required"`
	Content string `json:"reviewContent" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
}

// SynchronizationPublisher emits a catalog enrichment request for an ISBN
// not yet known to the catalog.
type SynchronizationPublisher interface {
	Publish(ctx context.Context, isbn string) error
}

type Service struct {
	reviews   Repository
	books     book.Repository
	publisher SynchronizationPublisher
	verifier  *Verifier
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewService(reviews Repository, books book.Repository, publisher SynchronizationPublisher, logger *slog.Logger) *Service {
	return &Service{
		reviews:   reviews,
		books:     books,
		publisher: publisher,
		verifier:  NewVerifier(),
		validate:  validator.New(),
		logger:    logger,
	}
}

// CreateReview validates and persists a review, returning the generated
// review id. When the reviewed ISBN is not in the catalog yet, a
// synchronization request is emitted fire-and-forget: the review commit
// never waits on or rolls back for the enrichment outcome.
func (s *Service) CreateReview(ctx context.Context, isbn string, req CreateReviewRequest, userID, userEmail string) (string, error) {
	if !isbnPattern.MatchString(isbn) {
		return "", fmt.Errorf("%w: isbn must be a 13-digit number", ErrInvalid)
	}
	if err := s.validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !s.verifier.MeetsQualityStandards(req.Content) {
		return "", ErrRejected
	}

	r := &Review{
		ID:        uuid.NewString(),
		BookISBN:  isbn,
		Title:     req.Title,
		Content:   req.Content,
		Rating:    req.Rating,
		UserID:    userID,
		UserEmail: userEmail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return "", fmt.Errorf("storing review: %w", err)
	}

	s.requestSynchronization(ctx, isbn)
	return r.ID, nil
}

func (s *Service) requestSynchronization(ctx context.Context, isbn string) {
	_, err := s.books.FindByISBN(ctx, isbn)
	if err == nil {
		return
	}
	if !errors.Is(err, book.ErrNotFound) {
		s.logger.Warn("catalog lookup failed, requesting synchronization anyway", "isbn", isbn, "error", err)
	}
	if err := s.publisher.Publish(ctx, isbn); err != nil {
		s.logger.Error("failed to publish synchronization request", "isbn", isbn, "error", err)
	}
}

// DeleteReview hard-deletes a review. The moderator capability is enforced
// at the HTTP layer before this method is reached; it is a documented
// precondition, not re-checked here.
func (s *Service) DeleteReview(ctx context.Context, isbn, reviewID string) error {
	return s.reviews.Delete(ctx, isbn, reviewID)
}

// GetAllReviews returns up to size reviews, newest submission order by
// default; orderBy "rating" sorts by rating descending.
func (s *Service) GetAllReviews(ctx context.Context, size int, orderBy string) ([]Review, error) {
	if size <= 0 || size > 100 {
		size = 20
	}
	return s.reviews.ListAll(ctx, size, orderBy)
}

// GetStatistics recomputes the per-book aggregation from the current
// persisted reviews. No caching; each call reflects the live state.
func (s *Service) GetStatistics(ctx context.Context) ([]Statistic, error) {
	return s.reviews.Statistics(ctx)
}
