// Package nutritionix proxies free-text food queries to the Nutritionix
// natural language nutrients endpoint.
package nutritionix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const nutrientsPath = "/v2/natural/nutrients"

var (
	ErrEmptyQuery    = errors.New("query is required")
	ErrNotConfigured = errors.New("nutritionix credentials not configured")
)

// UpstreamError is a non-2xx answer from Nutritionix.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("nutritionix returned %d: %s", e.Status, e.Body)
}

type Client struct {
	baseURL    string
	appID      string
	appKey     string
	httpClient *http.Client
}

func NewClient(baseURL, appID, appKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		appID:   appID,
		appKey:  appKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search sends query verbatim and returns the upstream "foods" array untouched.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if c.appID == "" || c.appKey == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+nutrientsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", c.appID)
	req.Header.Set("x-app-key", c.appKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nutritionix request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read nutritionix response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		Foods json.RawMessage `json:"foods"`
	}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nutritionix response: %w", err)
	}

	if len(result.Foods) == 0 || string(result.Foods) == "null" {
		return json.RawMessage("[]"), nil
	}

	return result.Foods, nil
}
