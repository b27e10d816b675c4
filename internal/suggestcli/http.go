package suggestcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	service "github.com/okian/fplhelper/internal/app"
)

// APIError is the decoded error envelope of a failed call.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap lets callers match with errors.Is(err, ErrAPI).
func (e *APIError) Unwrap() error { return ErrAPI }

// Client calls the suggestion API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Suggest posts req to /suggestions.
func (c *Client) Suggest(ctx context.Context, req service.SuggestRequest) (*service.SuggestResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/suggestions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq)
}

// EntryQuery holds the optional parameters of an entry lookup.
type EntryQuery struct {
	Gameweek      int
	TopN          int
	MaxSquadValue float64
	MaxPerTeam    int
}

// SuggestForEntry calls /entries/{id}/suggestions.
func (c *Client) SuggestForEntry(ctx context.Context, entryID int, q EntryQuery) (*service.SuggestResponse, error) {
	v := url.Values{}
	if q.Gameweek > 0 {
		v.Set("gw", strconv.Itoa(q.Gameweek))
	}
	if q.TopN > 0 {
		v.Set("top_n", strconv.Itoa(q.TopN))
	}
	if q.MaxSquadValue > 0 {
		v.Set("max_squad_value", strconv.FormatFloat(q.MaxSquadValue, 'f', -1, 64))
	}
	if q.MaxPerTeam > 0 {
		v.Set("max_per_team", strconv.Itoa(q.MaxPerTeam))
	}
	target := fmt.Sprintf("%s/entries/%d/suggestions", c.baseURL, entryID)
	if len(v) > 0 {
		target += "?" + v.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (*service.SuggestResponse, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil || apiErr.Code == "" {
			apiErr.Code = "unknown"
			apiErr.Message = string(bytes.TrimSpace(body))
		}
		return nil, apiErr
	}

	var out service.SuggestResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
