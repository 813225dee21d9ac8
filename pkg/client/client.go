// Package client is a small HTTP client for the geodocs API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to a geodocs server over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithAPIKey sets a bearer token sent on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Document mirrors the API document representation. Latitude and Longitude
// are nil when the document has no location. DistanceMeters is set only on
// geo search results.
type Document struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	Content        string   `json:"content"`
	Date           string   `json:"date"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

// CreateDocument is the payload for Create.
type CreateDocument struct {
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Content   string   `json:"content"`
	Date      string   `json:"date"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// SearchQuery holds search parameters. Zero values are omitted from the
// request, so the server applies its own defaults.
type SearchQuery struct {
	Keyword   string
	Phrase    string
	Latitude  *float64
	Longitude *float64
	Page      int
	Limit     int
}

// SearchPage is one page of search results.
type SearchPage struct {
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	Results []Document `json:"results"`
}

// Health is the server health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// APIError is a non-2xx response decoded from the server error envelope.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("geodocs: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Create stores a document and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, doc CreateDocument) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodPost, "/documents", nil, doc, &out)
	return out, err
}

// Search runs a search and returns one page of results.
func (c *Client) Search(ctx context.Context, q SearchQuery) (SearchPage, error) {
	params := url.Values{}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	if q.Phrase != "" {
		params.Set("phrase", q.Phrase)
	}
	if q.Latitude != nil {
		params.Set("latitude", strconv.FormatFloat(*q.Latitude, 'f', -1, 64))
	}
	if q.Longitude != nil {
		params.Set("longitude", strconv.FormatFloat(*q.Longitude, 'f', -1, 64))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var out SearchPage
	err := c.do(ctx, http.MethodGet, "/documents", params, nil, &out)
	return out, err
}

// Get fetches a document by id.
func (c *Client) Get(ctx context.Context, id string) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// Delete removes a document by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, nil, nil)
}

// Health fetches the server health report. A degraded server answers 503,
// the report is still returned without error so callers can inspect Checks.
func (c *Client) Health(ctx context.Context) (Health, error) {
	u := c.baseURL + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return Health{}, err
	}
	c.setHeaders(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return Health{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return Health{}, decodeError(resp)
	}

	var out Health
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Health{}, fmt.Errorf("geodocs: decode response: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("geodocs: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("geodocs: decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = resp.Status
	}
	return apiErr
}
