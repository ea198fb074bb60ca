package book

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubRepo struct {
	books []Book
	err   error
}

func (s *stubRepo) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	for i := range s.books {
		if s.books[i].ISBN == isbn {
			return &s.books[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubRepo) Create(ctx context.Context, b *Book) error { return s.err }

func (s *stubRepo) List(ctx context.Context, limit int) ([]Book, error) {
	return s.books, s.err
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("returns catalog entries", func(t *testing.T) {
		handler := NewHTTPHandler(&stubRepo{books: []Book{
			{ISBN: "9780596004651", Title: "Head second Java", Description: "N.A"},
		}})

		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "9780596004651")
		assert.Contains(t, rec.Body.String(), "Head second Java")
	})

	t.Run("maps repository failures to 500", func(t *testing.T) {
		handler := NewHTTPHandler(&stubRepo{err: errors.New("db down")})

		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("rejects non-GET methods", func(t *testing.T) {
		handler := NewHTTPHandler(&stubRepo{})

		req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
		rec := httptest.NewRecorder()
		handler.List(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
