// Package restapi implements the directory client against a plain
// REST endpoint returning a JSON array of user records.
package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"taskdeck/internal/directory/repository"
	"taskdeck/internal/model"
)

// Client is the HTTP wrapper for the user directory endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a directory client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{},
	}
}

// SetHTTPClient overrides the transport, for tests.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// FetchUsers performs one GET and decodes the body as a user array.
// Any status other than 200 is an error; a body that does not decode
// wraps repository.ErrDecode so the service can classify it.
func (c *Client) FetchUsers(ctx context.Context) ([]model.User, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call user directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("user directory error %d: %s", resp.StatusCode, string(raw))
	}

	var users []model.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrDecode, err)
	}
	return users, nil
}
