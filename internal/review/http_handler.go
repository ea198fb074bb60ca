package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookreviews/internal/httpx"
)

// ModeratorRole is the claim value required to delete reviews.
const ModeratorRole = "MODERATOR"

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// parseBookReviewPath splits /api/books/{isbn}/reviews[/{reviewID}].
func parseBookReviewPath(path string) (isbn, reviewID string, ok bool) {
	trimmed := strings.Trim(strings.TrimPrefix(path, "/api"), "/")
	parts := strings.Split(trimmed, "/")
	switch {
	case len(parts) == 3 && parts[0] == "books" && parts[2] == "reviews":
		return parts[1], "", true
	case len(parts) == 4 && parts[0] == "books" && parts[2] == "reviews":
		return parts[1], parts[3], true
	}
	return "", "", false
}

// Dispatch routes POST /api/books/{isbn}/reviews and
// DELETE /api/books/{isbn}/reviews/{reviewID}.
func (h *HTTPHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	isbn, reviewID, ok := parseBookReviewPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case r.Method == http.MethodPost && reviewID == "":
		h.createReview(w, r, isbn)
	case r.Method == http.MethodDelete && reviewID != "":
		h.deleteReview(w, r, isbn, reviewID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *HTTPHandler) createReview(w http.ResponseWriter, r *http.Request, isbn string) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		return
	}

	userID := httpx.UserIDFrom(r)
	userEmail := httpx.EmailFrom(r)

	id, err := h.svc.CreateReview(r.Context(), isbn, req, userID, userEmail)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalid):
			httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		case errors.Is(err, ErrRejected):
			httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "quality_rejected", "review does not meet quality standards", nil)
		default:
			httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "internal_error", "could not store review", nil)
		}
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+id)
	httpx.JSONSuccessCreatedWithRequest(r, w, map[string]string{"id": id})
}

func (h *HTTPHandler) deleteReview(w http.ResponseWriter, r *http.Request, isbn, reviewID string) {
	if httpx.RoleFrom(r) != ModeratorRole {
		httpx.JSONErrorWithRequest(r, w, http.StatusForbidden, "forbidden", "deleting reviews requires the moderator role", nil)
		return
	}

	if err := h.svc.DeleteReview(r.Context(), isbn, reviewID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, "not_found", "review not found", nil)
			return
		}
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "internal_error", "could not delete review", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// ListReviews handles GET /api/books/reviews.
func (h *HTTPHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	orderBy := r.URL.Query().Get("orderBy")

	reviews, err := h.svc.GetAllReviews(r.Context(), size, orderBy)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "internal_error", "could not list reviews", nil)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, reviews, nil)
}

// Statistics handles GET /api/books/reviews/statistics.
func (h *HTTPHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.svc.GetStatistics(r.Context())
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "internal_error", "could not compute statistics", nil)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, stats, nil)
}
