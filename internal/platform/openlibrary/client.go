package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"bookreviews/internal/book"

	"golang.org/x/time/rate"
)

// ErrUpstream marks a non-success response or a success response missing
// the expected payload. Callers treat it like a transport failure: the
// safe recovery action (redeliver) is the same for both.
var ErrUpstream = errors.New("openlibrary: upstream error")

const (
	// Both connection setup and the wait for response headers are bounded
	// separately; expiry of either surfaces as a transport error.
	connectTimeout = 1 * time.Second
	readTimeout    = 1 * time.Second
)

// fieldMissing is stored wherever the upstream payload omits a value the
// rest of the system treats as always-present text.
const fieldMissing = "N.A"

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

func NewClient(baseURL, userAgent string, rps int) *Client {
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
		ResponseHeaderTimeout: readTimeout,
	}
	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   5 * time.Second,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// bookPayload matches one entry of api/books?jscmd=data. Every field is
// optional; absence must not fail decoding.
type bookPayload struct {
	Title      string `json:"title"`
	Publishers []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	Authors []struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"authors"`
	Subjects []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"subjects"`
	NumberOfPages int `json:"number_of_pages"`
	Cover         struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
	Description interface{} `json:"description"` // string or {type: ..., value: ...}
}

// FetchMetadataForBook looks up a single ISBN and returns the normalized
// catalog record. Transport failures, non-2xx responses and success bodies
// without an entry for the ISBN all return an error; nothing is retried
// here, redelivery is the caller's concern.
func (c *Client) FetchMetadataForBook(ctx context.Context, isbn string) (*book.Book, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/books?jscmd=data&format=json&bibkeys=%s", c.baseURL, url.QueryEscape(isbn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openlibrary: fetch %s: %w", isbn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d for %s", ErrUpstream, resp.StatusCode, isbn)
	}

	var payload map[string]bookPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response for %s: %v", ErrUpstream, isbn, err)
	}

	record, ok := payload[isbn]
	if !ok {
		return nil, fmt.Errorf("%w: response is missing an entry for %s", ErrUpstream, isbn)
	}
	return normalize(isbn, record), nil
}

// normalize maps the irregular upstream payload onto the canonical catalog
// record. Pure, so tests can run it against raw fixture payloads.
func normalize(isbn string, p bookPayload) *book.Book {
	author := fieldMissing
	if len(p.Authors) > 0 && p.Authors[0].Name != "" {
		author = p.Authors[0].Name
	}
	publisher := fieldMissing
	if len(p.Publishers) > 0 && p.Publishers[0].Name != "" {
		publisher = p.Publishers[0].Name
	}
	genre := fieldMissing
	if len(p.Subjects) > 0 && p.Subjects[0].Name != "" {
		genre = p.Subjects[0].Name
	}

	return &book.Book{
		ISBN:         isbn,
		Title:        textOr(p.Title),
		Author:       author,
		Description:  descriptionText(p.Description),
		Genre:        genre,
		Publisher:    publisher,
		Pages:        p.NumberOfPages,
		ThumbnailURL: coverURL(p),
	}
}

func coverURL(p bookPayload) string {
	for _, u := range []string{p.Cover.Medium, p.Cover.Large, p.Cover.Small} {
		if u != "" {
			return u
		}
	}
	return fieldMissing
}

// descriptionText tolerates both shapes Open Library uses for description:
// a bare string or an object with a "value" key.
func descriptionText(description interface{}) string {
	if s, ok := description.(string); ok && s != "" {
		return s
	}
	if m, ok := description.(map[string]interface{}); ok {
		if v, ok := m["value"].(string); ok && v != "" {
			return v
		}
	}
	return fieldMissing
}

func textOr(s string) string {
	if s == "" {
		return fieldMissing
	}
	return s
}
