// Package emulator is a local stand-in for the hosted identity and
// document store backends. It speaks the same wire protocol the app's
// clients use, so development and tests run without a remote project.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskdeck/pkg/log"
)

const defaultTokenTTL = time.Hour

// Server holds all dependencies for the emulator HTTP server.
type Server struct {
	gin  *gin.Engine
	l    log.Logger
	port int
	mode string

	jwtSecret []byte
	tokenTTL  time.Duration

	store    *Store
	accounts *accountStore
	limiter  *rateLimiter
}

// Config is the dependency bag passed to New().
type Config struct {
	Port int
	Mode string

	// JWTSecret signs the ID tokens the emulator mints.
	JWTSecret string

	// TokenTTL is the ID token lifetime. Zero means one hour.
	TokenTTL time.Duration

	// RateLimitPerMin throttles each client IP. Zero disables it.
	RateLimitPerMin int
}

// New creates a new emulator Server instance.
func New(logger log.Logger, cfg Config) (*Server, error) {
	gin.SetMode(cfg.Mode)

	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}

	srv := &Server{
		l:         logger,
		gin:       gin.New(),
		port:      cfg.Port,
		mode:      cfg.Mode,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  tokenTTL,
		store:     NewStore(),
		accounts:  newAccountStore(),
	}
	if cfg.RateLimitPerMin > 0 {
		srv.limiter = newRateLimiter(cfg.RateLimitPerMin)
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv *Server) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if len(srv.jwtSecret) == 0 {
		return errors.New("jwt secret is required")
	}
	return nil
}

// Handler exposes the underlying router, for tests and embedding.
func (srv *Server) Handler() http.Handler {
	return srv.gin
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (srv *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.port),
		Handler: srv.gin,
	}

	errCh := make(chan error, 1)
	go func() {
		srv.l.Infof(ctx, "Emulator listening on port %d", srv.port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
