package client

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

	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/arch-spatula/jmc/pkg/logger"
)

// Client talks to the JMC API. It implements sheet.Saver so a table can be
// submitted from outside the server.
type Client struct {
	config     Config
	httpClient *http.Client
}

var _ sheet.Saver = (*Client)(nil)

// NewClient creates a new API client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	timeout := config.Timeout.Duration
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	config.ServerURL = strings.TrimRight(config.ServerURL, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SaveBatch submits one change batch. A rejection comes back as a
// *ResponseError wrapping ErrSaveFailed whose text is the server message.
func (c *Client) SaveBatch(ctx context.Context, payload sheet.Payload) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/api/restaurants/save", payload)
	if err != nil {
		var respErr *ResponseError
		if errors.As(err, &respErr) {
			respErr.kind = ErrSaveFailed
		}
		return err
	}
	return nil
}

// FetchRecommend returns a random restaurant, or nil when there are none
func (c *Client) FetchRecommend(ctx context.Context) (*sheet.Record, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/restaurants/recommend", nil)
	if err != nil {
		return nil, err
	}

	var rec *sheet.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommend response: %w", err)
	}
	return rec, nil
}

// FetchAll returns every persisted restaurant
func (c *Client) FetchAll(ctx context.Context) ([]sheet.Record, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/restaurants", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Restaurants []sheet.Record `json:"restaurants"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal restaurants response: %w", err)
	}
	return resp.Restaurants, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.ServerURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug("JMC API request failed", map[string]interface{}{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		})
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.Status),
			kind:       ErrRequestFailed,
		}
	}

	return body, nil
}

// errorMessage prefers the message field of a JSON error body and falls
// back to the raw body text.
func errorMessage(body []byte, status string) string {
	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}
