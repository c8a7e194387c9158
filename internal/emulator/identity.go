package emulator

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskdeck/pkg/response"
)

var (
	errEmailTaken         = errors.New("email already registered")
	errInvalidCredentials = errors.New("invalid email or password")
	errUnknownEmail       = errors.New("unknown email")
	errUnknownRefresh     = errors.New("unknown refresh token")
)

type account struct {
	uid          string
	email        string
	passwordHash [32]byte
}

// accountStore holds registered accounts and issued refresh tokens.
type accountStore struct {
	mu      sync.Mutex
	byEmail map[string]*account
	refresh map[string]string // refresh token -> uid
}

func newAccountStore() *accountStore {
	return &accountStore{
		byEmail: make(map[string]*account),
		refresh: make(map[string]string),
	}
}

func (a *accountStore) signUp(email, password string) (*account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.byEmail[email]; ok {
		return nil, errEmailTaken
	}
	acc := &account{
		uid:          uuid.NewString(),
		email:        email,
		passwordHash: sha256.Sum256([]byte(password)),
	}
	a.byEmail[email] = acc
	return acc, nil
}

func (a *accountStore) signIn(email, password string) (*account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	acc, ok := a.byEmail[email]
	if !ok {
		return nil, errInvalidCredentials
	}
	hash := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(hash[:], acc.passwordHash[:]) != 1 {
		return nil, errInvalidCredentials
	}
	return acc, nil
}

func (a *accountStore) exists(email string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.byEmail[email]
	return ok
}

// issueRefresh mints a refresh token for uid. Old tokens stay valid;
// the emulator never expires them.
func (a *accountStore) issueRefresh(uid string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	token := uuid.NewString()
	a.refresh[token] = uid
	return token
}

func (a *accountStore) resolveRefresh(token string) (*account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	uid, ok := a.refresh[token]
	if !ok {
		return nil, errUnknownRefresh
	}
	for _, acc := range a.byEmail {
		if acc.uid == uid {
			return acc, nil
		}
	}
	return nil, errUnknownRefresh
}

// sessionPayload is the response body for sign-in, sign-up and token
// refresh. ExpiresIn is in seconds.
type sessionPayload struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

func (srv *Server) mintIDToken(acc *account) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   acc.uid,
		"email": acc.email,
		"iat":   now.Unix(),
		"exp":   now.Add(srv.tokenTTL).Unix(),
	})
	return token.SignedString(srv.jwtSecret)
}

func (srv *Server) sessionFor(c *gin.Context, acc *account) {
	idToken, err := srv.mintIDToken(acc)
	if err != nil {
		srv.l.Errorf(c.Request.Context(), "emulator: failed to mint id token: %v", err)
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionPayload{
		IDToken:      idToken,
		RefreshToken: srv.accounts.issueRefresh(acc.uid),
		ExpiresIn:    int(srv.tokenTTL.Seconds()),
	})
}

type credentialsReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (srv *Server) handleSignUp(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	acc, err := srv.accounts.signUp(req.Email, req.Password)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	srv.l.Infof(c.Request.Context(), "emulator: account created for %s", req.Email)
	srv.sessionFor(c, acc)
}

func (srv *Server) handleSignIn(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	acc, err := srv.accounts.signIn(req.Email, req.Password)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	srv.sessionFor(c, acc)
}

func (srv *Server) handleSendResetEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	if !srv.accounts.exists(req.Email) {
		response.Error(c, errUnknownEmail, nil)
		return
	}
	// No mail is sent; the emulator only logs the request.
	srv.l.Infof(c.Request.Context(), "emulator: password reset requested for %s", req.Email)
	response.OK(c, nil)
}

func (srv *Server) handleToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	acc, err := srv.accounts.resolveRefresh(req.RefreshToken)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	srv.sessionFor(c, acc)
}

// verifyIDToken checks signature and expiry and returns the uid.
func (srv *Server) verifyIDToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return srv.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("id token has no subject")
	}
	return sub, nil
}
