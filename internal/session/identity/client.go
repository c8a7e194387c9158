// Package identity implements session.Provider against a REST
// identity provider speaking a token-based protocol: sign-in and
// sign-up return an ID token (a JWT carrying uid and email) plus a
// refresh token; the ID token authorizes document store calls.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/session"
	pkgLog "taskdeck/pkg/log"
)

// Client is the HTTP wrapper for the identity provider. It holds the
// current session in memory and mirrors it to the cache file so the
// app can skip sign-in on the next launch.
type Client struct {
	baseURL    string
	cachePath  string
	httpClient *http.Client
	l          pkgLog.Logger

	mu      sync.Mutex
	current *storedSession
}

// Config configures the identity client.
type Config struct {
	BaseURL string

	// CachePath is the session file location. Empty disables
	// persistence (tests, sign-in-per-run usage).
	CachePath string

	// HTTPClient overrides the transport, for tests.
	HTTPClient *http.Client
}

// New creates an identity client. An existing session cache is loaded
// eagerly; a corrupt cache is discarded, not fatal.
func New(l pkgLog.Logger, cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &Client{
		baseURL:    cfg.BaseURL,
		cachePath:  cfg.CachePath,
		httpClient: httpClient,
		l:          l,
	}

	if cfg.CachePath != "" {
		if stored, err := loadCache(cfg.CachePath); err == nil {
			c.current = stored
		} else {
			l.Debugf(context.Background(), "identity: no usable session cache: %v", err)
		}
	}
	return c
}

// sessionPayload is the provider's response to sign-in, sign-up and
// token refresh.
type sessionPayload struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	return c.credentialCall(ctx, "accounts/signIn", email, password)
}

// SignUp registers a new account and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) (model.Session, error) {
	return c.credentialCall(ctx, "accounts/signUp", email, password)
}

func (c *Client) credentialCall(ctx context.Context, op, email, password string) (model.Session, error) {
	payload, err := c.post(ctx, op, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return model.Session{}, err
	}
	return c.adopt(payload)
}

// SendPasswordReset asks the provider to email a recovery link. No
// session is required or produced.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	_, err := c.post(ctx, "accounts/sendResetEmail", map[string]string{"email": email})
	return err
}

// SignOut drops the in-memory session and the cache file.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return session.ErrNotSignedIn
	}
	c.current = nil
	if c.cachePath != "" {
		if err := removeCache(c.cachePath); err != nil {
			return fmt.Errorf("failed to remove session cache: %w", err)
		}
	}
	return nil
}

// Current returns the session restored from memory or cache.
func (c *Client) Current() (model.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return model.Session{}, false
	}
	return model.Session{UserID: c.current.UserID, Email: c.current.Email}, true
}

// adopt turns a provider payload into the current session.
func (c *Client) adopt(payload *sessionPayload) (model.Session, error) {
	userID, email, err := parseIDToken(payload.IDToken)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to parse id token: %w", err)
	}

	stored := &storedSession{
		UserID:       userID,
		Email:        email,
		IDToken:      payload.IDToken,
		RefreshToken: payload.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = stored
	if c.cachePath != "" {
		if err := saveCache(c.cachePath, stored); err != nil {
			return model.Session{}, fmt.Errorf("failed to save session cache: %w", err)
		}
	}
	return model.Session{UserID: userID, Email: email}, nil
}

// post calls one identity endpoint and decodes a session payload.
func (c *Client) post(ctx context.Context, op string, body any) (*sessionPayload, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
	}

	url := fmt.Sprintf("%s/v1/%s", c.baseURL, op)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("identity provider %s error %d: %s", op, resp.StatusCode, string(raw))
	}

	var payload sessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return &payload, nil
}
