package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookreviews/internal/book"
)

// BookSynchronization is the single-ISBN payload consumed from the
// enrichment topic.
type BookSynchronization struct {
	ISBN string `json:"isbn"`
}

// MetadataClient fetches the canonical record for one ISBN from the
// external bibliographic source.
type MetadataClient interface {
	FetchMetadataForBook(ctx context.Context, isbn string) (*book.Book, error)
}

// Consumer enriches the catalog with metadata for ISBNs referenced by
// reviews. It holds no state across invocations and is safe to invoke
// concurrently for different ISBNs; for the same ISBN under redelivery the
// catalog's insert-if-absent is the final arbiter.
type Consumer struct {
	books  book.Repository
	client MetadataClient
	logger *slog.Logger
}

func NewConsumer(books book.Repository, client MetadataClient, logger *slog.Logger) *Consumer {
	return &Consumer{books: books, client: client, logger: logger}
}

// Consume processes one synchronization message. A malformed ISBN and an
// already-enriched book are silent no-ops. Fetch and storage failures
// propagate so the delivery layer can redeliver the message.
func (c *Consumer) Consume(ctx context.Context, msg BookSynchronization) error {
	if !validISBN(msg.ISBN) {
		c.logger.Warn("discarding synchronization request with malformed isbn", "isbn", msg.ISBN)
		return nil
	}

	if _, err := c.books.FindByISBN(ctx, msg.ISBN); err == nil {
		c.logger.Debug("book already in catalog, skipping enrichment", "isbn", msg.ISBN)
		return nil
	} else if !errors.Is(err, book.ErrNotFound) {
		return fmt.Errorf("looking up %s: %w", msg.ISBN, err)
	}

	fetched, err := c.client.FetchMetadataForBook(ctx, msg.ISBN)
	if err != nil {
		return fmt.Errorf("fetching metadata for %s: %w", msg.ISBN, err)
	}

	if err := c.books.Create(ctx, fetched); err != nil {
		return fmt.Errorf("storing book %s: %w", msg.ISBN, err)
	}
	c.logger.Info("catalog enriched", "isbn", msg.ISBN, "title", fetched.Title)
	return nil
}

func validISBN(isbn string) bool {
	if len(isbn) != 13 {
		return false
	}
	for _, r := range isbn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
