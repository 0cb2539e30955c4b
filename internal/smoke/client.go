package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/fitcheck/internal/domain/analytics"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/planner"
	"github.com/okian/fitcheck/internal/domain/types"
)

// ErrStatus is returned when the server answers with an unexpected status.
var ErrStatus = errors.New("unexpected status")

// StatusError carries the status and decoded error body.
type StatusError struct {
	Status int
	Body   types.ErrorResponse
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d: %s %s", ErrStatus, e.Status, e.Body.Code, e.Body.Message)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Client is a typed client for the fitcheck HTTP API.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, want ...int) (int, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	for _, code := range want {
		if resp.StatusCode == code {
			if out != nil && len(data) > 0 {
				if err := json.Unmarshal(data, out); err != nil {
					return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
				}
			}
			return resp.StatusCode, nil
		}
	}
	se := &StatusError{Status: resp.StatusCode}
	_ = json.Unmarshal(data, &se.Body)
	return resp.StatusCode, se
}

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) (types.HealthResponse, error) {
	var out types.HealthResponse
	_, err := c.do(ctx, http.MethodGet, "/api/health", nil, &out, http.StatusOK)
	return out, err
}

// Items calls GET /api/clothing, optionally filtered by slot.
func (c *Client) Items(ctx context.Context, slot model.Slot) ([]model.ClothingItem, error) {
	path := "/api/clothing"
	if slot != "" {
		path += "?type=" + string(slot)
	}
	var out []model.ClothingItem
	_, err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out, err
}

// AddItem calls POST /api/clothing.
func (c *Client) AddItem(ctx context.Context, req types.ItemRequest) (model.ClothingItem, error) {
	var out model.ClothingItem
	_, err := c.do(ctx, http.MethodPost, "/api/clothing", req, &out, http.StatusCreated)
	return out, err
}

// Daily calls POST /api/planner/daily.
func (c *Client) Daily(ctx context.Context) (planner.DailyPlan, error) {
	var out planner.DailyPlan
	_, err := c.do(ctx, http.MethodPost, "/api/planner/daily", nil, &out, http.StatusOK)
	return out, err
}

// Weekly calls POST /api/planner/week.
func (c *Client) Weekly(ctx context.Context) (planner.WeeklyPlan, error) {
	var out planner.WeeklyPlan
	_, err := c.do(ctx, http.MethodPost, "/api/planner/week", nil, &out, http.StatusOK)
	return out, err
}

// SubmitWear calls POST /api/planner/wear. Backpressure surfaces as a
// *StatusError with status 429.
func (c *Client) SubmitWear(ctx context.Context, req types.WearRequest) (types.WearAck, error) {
	var out types.WearAck
	_, err := c.do(ctx, http.MethodPost, "/api/planner/wear", req, &out, http.StatusAccepted, http.StatusOK)
	return out, err
}

// History calls GET /api/history?limit=n.
func (c *Client) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	var out []model.HistoryEntry
	_, err := c.do(ctx, http.MethodGet, "/api/history?limit="+strconv.Itoa(limit), nil, &out, http.StatusOK)
	return out, err
}

// Rate calls POST /api/history/{id}/rating.
func (c *Client) Rate(ctx context.Context, entryID string, rating int) (model.HistoryEntry, error) {
	var out model.HistoryEntry
	_, err := c.do(ctx, http.MethodPost, "/api/history/"+entryID+"/rating",
		types.RatingRequest{Rating: rating}, &out, http.StatusOK)
	return out, err
}

// Analytics calls GET /api/analytics.
func (c *Client) Analytics(ctx context.Context) (analytics.Summary, error) {
	var out analytics.Summary
	_, err := c.do(ctx, http.MethodGet, "/api/analytics", nil, &out, http.StatusOK)
	return out, err
}
