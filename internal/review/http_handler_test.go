package review

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookreviews/internal/book"
	"bookreviews/internal/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authenticated(r *http.Request, userID, email, role string) *http.Request {
	ctx := httpx.ContextWithUser(r.Context(), userID, email, role)
	return r.WithContext(ctx)
}

func TestHTTPHandler_CreateReview(t *testing.T) {
	t.Run("returns 201 with the generated id", func(t *testing.T) {
		svc, reviews, books, publisher := newTestService()
		handler := NewHTTPHandler(svc)

		reviews.On("Create", mock.Anything, mock.Anything).Return(nil)
		books.On("FindByISBN", mock.Anything, unknownISBN).Return(nil, book.ErrNotFound)
		publisher.On("Publish", mock.Anything, unknownISBN).Return(nil)

		body := `{"reviewTitle":"Great Java Book","reviewContent":"This is a great book about Java, everyone should read it once","rating":4}`
		req := httptest.NewRequest(http.MethodPost, "/api/books/"+unknownISBN+"/reviews", strings.NewReader(body))
		req = authenticated(req, "user-1", "user@example.com", "USER")
		rec := httptest.NewRecorder()

		handler.Dispatch(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			Success bool              `json:"success"`
			Data    map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data["id"])
		assert.Contains(t, rec.Header().Get("Location"), resp.Data["id"])
	})

	t.Run("returns 400 for out-of-bound rating without storing", func(t *testing.T) {
		svc, reviews, _, _ := newTestService()
		handler := NewHTTPHandler(svc)

		body := `{"reviewTitle":"t","reviewContent":"c","rating":-1}`
		req := httptest.NewRequest(http.MethodPost, "/api/books/"+unknownISBN+"/reviews", strings.NewReader(body))
		req = authenticated(req, "user-1", "user@example.com", "USER")
		rec := httptest.NewRecorder()

		handler.Dispatch(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("returns 400 with quality_rejected code for low-quality content", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		handler := NewHTTPHandler(svc)

		body := `{"reviewTitle":"Meh","reviewContent":"This book is shit","rating":1}`
		req := httptest.NewRequest(http.MethodPost, "/api/books/"+unknownISBN+"/reviews", strings.NewReader(body))
		req = authenticated(req, "user-1", "user@example.com", "USER")
		rec := httptest.NewRecorder()

		handler.Dispatch(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "quality_rejected")
	})

	t.Run("returns 400 for invalid json", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		handler := NewHTTPHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/books/"+unknownISBN+"/reviews", strings.NewReader("{not json"))
		req = authenticated(req, "user-1", "user@example.com", "USER")
		rec := httptest.NewRecorder()

		handler.Dispatch(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHTTPHandler_DeleteReview(t *testing.T) {
	t.Run("requires the moderator role", func(t *testing.T) {
		svc, reviews, _, _ := newTestService()
		handler := NewHTTPHandler(svc)

		req := httptest.NewRequest(http.MethodDelete, "/api/books/"+knownISBN+"/reviews/review-1", nil)
		req = authenticated(req, "user-1", "user@example.com", "USER")
		rec := httptest.NewRecorder()

		handler.Dispatch(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("moderator delete succeeds", func(t *testing.T) {
		svc, reviews, _, _ := newTestService()
		handler := NewHTTPHandler(svc)

		reviews.On("Delete", mock.Anything, knownISBN, "review-1").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/books/"+knownISBN+"/reviews/review-1", nil)
		req = authenticated(req, "mod-1", "mod@example.com", ModeratorRole)
		rec := httptest.NewRecorder()

		handler.Dispatch(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		reviews.AssertExpectations(t)
	})

	t.Run("missing review yields 404", func(t *testing.T) {
		svc, reviews, _, _ := newTestService()
		handler := NewHTTPHandler(svc)

		reviews.On("Delete", mock.Anything, knownISBN, "missing").Return(ErrNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/books/"+knownISBN+"/reviews/missing", nil)
		req = authenticated(req, "mod-1", "mod@example.com", ModeratorRole)
		rec := httptest.NewRecorder()

		handler.Dispatch(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHTTPHandler_ListReviewsAndStatistics(t *testing.T) {
	t.Run("list defaults to twenty unordered", func(t *testing.T) {
		svc, reviews, _, _ := newTestService()
		handler := NewHTTPHandler(svc)

		reviews.On("ListAll", mock.Anything, 20, "").Return([]Review{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/books/reviews", nil)
		rec := httptest.NewRecorder()

		handler.ListReviews(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		reviews.AssertExpectations(t)
	})

	t.Run("list honors size and orderBy", func(t *testing.T) {
		svc, reviews, _, _ := newTestService()
		handler := NewHTTPHandler(svc)

		reviews.On("ListAll", mock.Anything, 5, "rating").Return([]Review{{Rating: 5}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/books/reviews?size=5&orderBy=rating", nil)
		rec := httptest.NewRecorder()

		handler.ListReviews(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		reviews.AssertExpectations(t)
	})

	t.Run("statistics endpoint returns the projection", func(t *testing.T) {
		svc, reviews, _, _ := newTestService()
		handler := NewHTTPHandler(svc)

		reviews.On("Statistics", mock.Anything).Return([]Statistic{
			{BookID: "book-1", ISBN: knownISBN, Avg: 4.25, Ratings: 4},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/books/reviews/statistics", nil)
		req = authenticated(req, "user-1", "user@example.com", "USER")
		rec := httptest.NewRecorder()

		handler.Statistics(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), knownISBN)
		assert.Contains(t, rec.Body.String(), "4.25")
	})
}
