package chi

import (
	"fmt"
	"net/http"
	"strconv"

	domdoc "github.com/kailas-cloud/geodocs/internal/domain/document"
	"github.com/kailas-cloud/geodocs/internal/domain/search/result"
)

// Error response codes.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeDocumentNotFound = "document_not_found"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createDocumentRequest struct {
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Content   string   `json:"content"`
	Date      string   `json:"date"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// documentResponse is the normalized document view: coordinates are always
// flat scalars, distance appears only on geo-ranked search hits.
type documentResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	Content        string   `json:"content"`
	Date           string   `json:"date"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

type searchResponse struct {
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Results []documentResponse `json:"results"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func documentToResponse(doc *domdoc.Document) documentResponse {
	resp := documentResponse{
		ID:      doc.ID(),
		Title:   doc.Title(),
		Author:  doc.Author(),
		Content: doc.Content(),
		Date:    doc.Date(),
	}
	if c := doc.Coordinates(); c != nil {
		lat, lon := c.Lat, c.Lon
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

func hitToResponse(hit *result.Hit) documentResponse {
	resp := documentResponse{
		ID:             hit.ID(),
		Title:          hit.Title(),
		Author:         hit.Author(),
		Content:        hit.Content(),
		Date:           hit.Date(),
		DistanceMeters: hit.DistanceMeters(),
	}
	if c := hit.Coordinates(); c != nil {
		lat, lon := c.Lat, c.Lon
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

func pageToResponse(page *result.Page) searchResponse {
	results := make([]documentResponse, 0, len(page.Hits()))
	for i := range page.Hits() {
		results = append(results, hitToResponse(&page.Hits()[i]))
	}
	return searchResponse{
		Page:    page.PageNumber(),
		Limit:   page.Limit(),
		Results: results,
	}
}

// searchParams holds the decoded GET /documents query parameters.
type searchParams struct {
	keyword   string
	phrase    string
	latitude  *float64
	longitude *float64
	page      int
	limit     int
}

// parseSearchParams decodes query parameters. Numeric parameters that fail to
// parse are rejected rather than silently dropped.
func parseSearchParams(r *http.Request) (searchParams, error) {
	q := r.URL.Query()
	params := searchParams{
		keyword: q.Get("keyword"),
		phrase:  q.Get("phrase"),
	}

	var err error
	if params.latitude, err = parseFloatParam(q.Get("latitude"), "latitude"); err != nil {
		return searchParams{}, err
	}
	if params.longitude, err = parseFloatParam(q.Get("longitude"), "longitude"); err != nil {
		return searchParams{}, err
	}
	if params.page, err = parseIntParam(q.Get("page"), "page"); err != nil {
		return searchParams{}, err
	}
	if params.limit, err = parseIntParam(q.Get("limit"), "limit"); err != nil {
		return searchParams{}, err
	}
	return params, nil
}

func parseFloatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return &v, nil
}

func parseIntParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}
