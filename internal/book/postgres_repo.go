package book

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (repo *PostgresRepo) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	query := `
		SELECT id, isbn, title, author, description, genre, publisher, pages, thumbnail_url, created_at, updated_at
		FROM books
		WHERE isbn = $1
		LIMIT 1
	`
	var b Book
	err := repo.db.QueryRow(ctx, query, isbn).Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Description, &b.Genre,
		&b.Publisher, &b.Pages, &b.ThumbnailURL, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create relies on the unique index on isbn as the atomicity boundary for
// concurrent enrichments of the same ISBN: the loser of the race is a
// silent no-op, never a second row and never an overwrite.
func (repo *PostgresRepo) Create(ctx context.Context, b *Book) error {
	insertSQL := `
		INSERT INTO books(isbn, title, author, description, genre, publisher, pages, thumbnail_url, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT(isbn) DO NOTHING;
	`
	_, err := repo.db.Exec(ctx, insertSQL,
		b.ISBN, b.Title, b.Author, b.Description, b.Genre,
		b.Publisher, b.Pages, b.ThumbnailURL,
	)
	return err
}

func (repo *PostgresRepo) List(ctx context.Context, limit int) ([]Book, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `
		SELECT id, isbn, title, author, description, genre, publisher, pages, thumbnail_url, created_at, updated_at
		FROM books
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := repo.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]Book, 0, limit)
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Description, &b.Genre,
			&b.Publisher, &b.Pages, &b.ThumbnailURL, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
