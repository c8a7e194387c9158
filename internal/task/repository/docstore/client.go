package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"taskdeck/internal/task/repository"
	pkgLog "taskdeck/pkg/log"
)

const (
	defaultWatchTimeout = 25 * time.Second
	defaultPollInterval = time.Second
)

// Client is the HTTP wrapper for the remote document store, scoped to
// one collection. It implements repository.Store.
type Client struct {
	baseURL      string
	collection   string
	httpClient   *http.Client
	watchTimeout time.Duration
	pollInterval time.Duration
	l            pkgLog.Logger
}

// Config configures the document store client.
type Config struct {
	BaseURL    string
	Collection string

	// TokenSource supplies the bearer token for every request. The
	// session provider owns it; the client never sees credentials.
	TokenSource oauth2.TokenSource

	// WatchTimeout is how long a single watch poll may block
	// server-side before returning an unchanged snapshot.
	WatchTimeout time.Duration

	// PollInterval caps how often the watch loop re-polls.
	PollInterval time.Duration

	// HTTPClient overrides the transport, for tests.
	HTTPClient *http.Client
}

// New creates a document store client.
func New(l pkgLog.Logger, cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		if cfg.TokenSource != nil {
			httpClient = oauth2.NewClient(context.Background(), cfg.TokenSource)
		} else {
			httpClient = &http.Client{}
		}
	}

	watchTimeout := cfg.WatchTimeout
	if watchTimeout <= 0 {
		watchTimeout = defaultWatchTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		collection:   cfg.Collection,
		httpClient:   httpClient,
		watchTimeout: watchTimeout,
		pollInterval: pollInterval,
		l:            l,
	}
}

// Add creates a new document via POST; the server assigns the id.
func (c *Client) Add(ctx context.Context, doc repository.TaskDocument) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	url := fmt.Sprintf("%s/v1/collections/%s/documents", c.baseURL, c.collection)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to build add request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call document store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("document store add error %d: %s", resp.StatusCode, string(raw))
	}

	var added struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		return "", fmt.Errorf("failed to decode add response: %w", err)
	}
	return added.ID, nil
}

// Set overwrites the document with the given id in full via PUT.
func (c *Client) Set(ctx context.Context, id string, doc repository.TaskDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	url := fmt.Sprintf("%s/v1/collections/%s/documents/%s", c.baseURL, c.collection, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build set request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call document store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("document store set error %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

// Delete removes the document with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/v1/collections/%s/documents/%s", c.baseURL, c.collection, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call document store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("document store delete error %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

// poll performs one watch request. With after set, the server blocks
// until its version passes afterVersion or the watch timeout elapses,
// then returns the current snapshot either way.
func (c *Client) poll(ctx context.Context, ownerID string, after bool, afterVersion uint64) (*repository.Snapshot, error) {
	query := url.Values{}
	query.Set("ownerId", ownerID)
	query.Set("timeoutSec", fmt.Sprintf("%d", int(c.watchTimeout.Seconds())))
	if after {
		query.Set("afterVersion", fmt.Sprintf("%d", afterVersion))
	}

	endpoint := fmt.Sprintf("%s/v1/collections/%s/watch?%s", c.baseURL, c.collection, query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build watch request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call document store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("document store watch error %d: %s", resp.StatusCode, string(raw))
	}

	var snap repository.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode watch response: %w", err)
	}
	return &snap, nil
}
