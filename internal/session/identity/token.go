package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"taskdeck/internal/session"
)

// refreshMargin renews the ID token this long before its expiry so
// in-flight requests never carry a token about to lapse.
const refreshMargin = time.Minute

// idClaims are the claims the provider puts in an ID token.
type idClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// parseIDToken extracts uid and email from an ID token. The signature
// is the provider's concern; the client only reads claims from tokens
// it received over the authenticated channel.
func parseIDToken(idToken string) (userID, email string, err error) {
	var claims idClaims
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, &claims); err != nil {
		return "", "", err
	}
	if claims.Subject == "" {
		return "", "", fmt.Errorf("id token has no subject")
	}
	return claims.Subject, claims.Email, nil
}

// TokenSource exposes the session as an oauth2 token source for the
// document store client. Tokens refresh through the provider shortly
// before they expire; oauth2.ReuseTokenSource caches valid ones.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &refreshingSource{c: c, ctx: ctx})
}

type refreshingSource struct {
	c   *Client
	ctx context.Context
}

func (s *refreshingSource) Token() (*oauth2.Token, error) {
	s.c.mu.Lock()
	current := s.c.current
	s.c.mu.Unlock()

	if current == nil {
		return nil, session.ErrNotSignedIn
	}

	if time.Until(current.Expiry) > refreshMargin {
		return &oauth2.Token{
			AccessToken: current.IDToken,
			TokenType:   "Bearer",
			Expiry:      current.Expiry,
		}, nil
	}

	payload, err := s.c.post(s.ctx, "token", map[string]string{
		"refreshToken": current.RefreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	if _, err := s.c.adopt(payload); err != nil {
		return nil, err
	}

	s.c.mu.Lock()
	refreshed := s.c.current
	s.c.mu.Unlock()
	return &oauth2.Token{
		AccessToken: refreshed.IDToken,
		TokenType:   "Bearer",
		Expiry:      refreshed.Expiry,
	}, nil
}
