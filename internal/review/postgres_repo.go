package review

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (repo *PostgresRepo) Create(ctx context.Context, r *Review) error {
	insertSQL := `
		INSERT INTO reviews(id, book_isbn, title, content, rating, user_id, user_email, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := repo.db.Exec(ctx, insertSQL,
		r.ID, r.BookISBN, r.Title, r.Content, r.Rating, r.UserID, r.UserEmail, r.CreatedAt,
	)
	return err
}

func (repo *PostgresRepo) Delete(ctx context.Context, isbn, reviewID string) error {
	deleteSQL := `DELETE FROM reviews WHERE id = $1 AND book_isbn = $2`
	tag, err := repo.db.Exec(ctx, deleteSQL, reviewID, isbn)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *PostgresRepo) ListAll(ctx context.Context, size int, orderBy string) ([]Review, error) {
	query := `
		SELECT id, book_isbn, title, content, rating, user_id, user_email, created_at
		FROM reviews
	`
	if orderBy == "rating" {
		query += ` ORDER BY rating DESC`
	} else {
		query += ` ORDER BY created_at DESC`
	}
	query += ` LIMIT $1`

	rows, err := repo.db.Query(ctx, query, size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]Review, 0, size)
	for rows.Next() {
		var r Review
		if err := rows.Scan(
			&r.ID, &r.BookISBN, &r.Title, &r.Content, &r.Rating,
			&r.UserID, &r.UserEmail, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// Statistics aggregates over the review rows, not the books table, so
// reviews for ISBNs still awaiting enrichment are counted too.
func (repo *PostgresRepo) Statistics(ctx context.Context) ([]Statistic, error) {
	query := `
		SELECT COALESCE(b.id::text, ''), r.book_isbn, ROUND(AVG(r.rating)::numeric, 2)::float8, COUNT(r.id)
		FROM reviews r
		LEFT JOIN books b ON b.isbn = r.book_isbn
		GROUP BY b.id, r.book_isbn
		ORDER BY r.book_isbn
	`
	rows, err := repo.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Statistic
	for rows.Next() {
		var s Statistic
		if err := rows.Scan(&s.BookID, &s.ISBN, &s.Avg, &s.Ratings); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
