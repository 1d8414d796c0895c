package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public Spoonacular API endpoint.
	DefaultBaseURL = "https://api.spoonacular.com"

	// DefaultTimeout bounds a single outbound call.
	DefaultTimeout = 10 * time.Second

	findByIngredientsPath = "/recipes/findByIngredients"

	// maxErrorBody caps how much of an error response is kept for logging.
	maxErrorBody = 512
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spoonacular returned status %d: %s", e.StatusCode, e.Body)
}

// Client is a client for the Spoonacular recipe API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout. It applies to a copy of the HTTP
// client, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a new Spoonacular client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// FindByIngredients issues one findByIngredients request. It does not retry.
func (c *Client) FindByIngredients(ctx context.Context, apiKey string, q Query) ([]Match, error) {
	reqURL := c.baseURL + findByIngredientsPath + "?" + encodeQuery(apiKey, q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", redactKey(err, apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var matches []Match
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&matches); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	// A null body decodes to a nil slice; "[]" decodes to an empty one.
	if matches == nil {
		return nil, errors.New("failed to decode response body: expected a JSON array, got null")
	}
	if dec.More() {
		return nil, errors.New("failed to decode response body: unexpected data after JSON array")
	}

	return matches, nil
}

// encodeQuery builds the raw query string. The ingredient list keeps its
// commas unescaped; every other reserved byte is escaped.
func encodeQuery(apiKey string, q Query) string {
	ingredients := strings.ReplaceAll(url.QueryEscape(q.Ingredients), "%2C", ",")

	var b strings.Builder
	b.WriteString("ingredients=")
	b.WriteString(ingredients)
	b.WriteString("&number=")
	b.WriteString(strconv.Itoa(q.Number))
	b.WriteString("&ranking=")
	b.WriteString(strconv.Itoa(q.Ranking))
	b.WriteString("&ignorePantry=")
	b.WriteString(strconv.FormatBool(q.IgnorePantry))
	b.WriteString("&apiKey=")
	b.WriteString(url.QueryEscape(apiKey))
	return b.String()
}

// redactKey strips the API key from transport errors, which echo the
// request URL.
func redactKey(err error, apiKey string) error {
	var urlErr *url.Error
	if apiKey == "" || !errors.As(err, &urlErr) {
		return err
	}
	urlErr.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(apiKey), "REDACTED")
	return err
}
