package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

// Client talks to a SerpAPI-compatible maps search endpoint and turns
// local results into raw lead records for the normalizer.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Search(ctx context.Context, niche, location string, limit int) ([]usecase.RawRecord, error) {
	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("q", fmt.Sprintf("%s in %s", niche, location))
	params.Set("type", "search")
	params.Set("api_key", c.apiKey)
	params.Set("hl", "en")

	endpoint := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("places search status %d: %s", resp.StatusCode, string(body))
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("places decode: %w", err)
	}

	results := response.LocalResults
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	records := make([]usecase.RawRecord, 0, len(results))
	for _, item := range results {
		records = append(records, item.toRecord(niche))
	}
	return records, nil
}

func (r localResult) toRecord(niche string) usecase.RawRecord {
	rec := usecase.RawRecord{
		"name":     r.Title,
		"niche":    niche,
		"website":  r.Website,
		"phone":    r.Phone,
		"address":  r.Address,
		"place_id": r.PlaceID,
	}
	if r.Category != "" {
		rec["niche"] = r.Category
	}
	if r.Rating != nil {
		rec["rating"] = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
	}
	if r.Reviews != nil {
		rec["review_count"] = strconv.Itoa(*r.Reviews)
	}

	// Pick the contact channel the dispatcher is most likely to reach.
	switch {
	case r.Email != "":
		rec["contact"] = r.Email
		rec["platform"] = "email"
		rec["email"] = r.Email
	case r.Phone != "":
		rec["contact"] = r.Phone
		rec["platform"] = "whatsapp"
	default:
		rec["contact"] = r.Website
		rec["platform"] = "linkedin"
	}
	return rec
}
