// Package remotestore is a store.Store that talks to a wishjar sync server.
package remotestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/store"

	json "github.com/goccy/go-json"
)

// KeyHeader carries the opaque user key on every request.
const KeyHeader = "X-Wishjar-Key"

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnauthorized indicates the server rejected the request for a missing key.
	ErrUnauthorized = errors.New("remotestore: missing or rejected user key")
	// ErrServer indicates the server reported its own storage as unavailable.
	ErrServer = errors.New("remotestore: server storage unavailable")
)

var _ store.Store = (*Client)(nil)

// Client fetches and upserts records over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL. A zero timeout uses the default.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remotestore: empty server url")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("remotestore: unsupported url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Fetch implements store.Store. A 404 means no record exists.
func (c *Client) Fetch(ctx context.Context, userKey string) (*model.SavingsRecord, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/v1/record", userKey, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}

	var rec model.SavingsRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("remotestore: parsing record: %w", err)
	}
	if rec.Wishes == nil {
		rec.Wishes = []model.Wish{}
	}
	return &rec, nil
}

// Upsert implements store.Store.
func (c *Client) Upsert(ctx context.Context, rec model.SavingsRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("remotestore: encoding record: %w", err)
	}
	_, _, err = c.do(ctx, http.MethodPut, "/v1/record", rec.UserKey, payload)
	return err
}

// PlanRequest is the body of POST /v1/plan.
type PlanRequest struct {
	Wishes         []model.Wish `json:"wishes"`
	CurrentBalance float64      `json:"current_balance"`
	DailySaving    float64      `json:"daily_saving"`
	Today          string       `json:"today,omitempty"`
}

// Plan asks the server to project a wish list.
func (c *Client) Plan(ctx context.Context, req PlanRequest) (*model.Plan, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("remotestore: encoding plan request: %w", err)
	}
	body, _, err := c.do(ctx, http.MethodPost, "/v1/plan", "", payload)
	if err != nil {
		return nil, err
	}
	var plan model.Plan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("remotestore: parsing plan: %w", err)
	}
	return &plan, nil
}

// Close implements store.Store.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path, userKey string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("remotestore: creating request: %w", err)
	}
	if userKey != "" {
		req.Header.Set(KeyHeader, userKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("remotestore: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("remotestore: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && method == http.MethodGet:
		return nil, resp.StatusCode, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, resp.StatusCode, ErrUnauthorized
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, resp.StatusCode, ErrServer
	case resp.StatusCode == http.StatusBadRequest:
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", model.ErrInvalidWish, serverMessage(body))
	case resp.StatusCode >= 300:
		return nil, resp.StatusCode, fmt.Errorf("remotestore: unexpected status %d: %s", resp.StatusCode, serverMessage(body))
	}

	return body, resp.StatusCode, nil
}

func serverMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
