package book

import (
	"net/http"
	"strconv"

	"bookreviews/internal/httpx"
)

type HTTPHandler struct {
	repo Repository
}

func NewHTTPHandler(repo Repository) *HTTPHandler {
	return &HTTPHandler{repo: repo}
}

// List handles GET /api/books.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("size"))
	books, err := h.repo.List(r.Context(), limit)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "internal_error", "could not list books", nil)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, books, nil)
}
