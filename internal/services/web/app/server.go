// Package app composes the web modules into a running HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cosmichub/cosmichub/internal/platform/timeouts"
	"github.com/cosmichub/cosmichub/internal/services/web/modules"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/entitlements"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/requestmeta"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/token"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/services/web/storage/sqlite"
)

// Server owns the HTTP listener and the storage handle behind it.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      webstorage.Store
}

// NewServer builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(config.DatabasePath) == "" {
		return nil, errors.New("database path is required")
	}
	if len(config.TokenSecret) == 0 {
		return nil, errors.New("token secret is required")
	}

	store, err := sqlite.Open(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	tokens, err := token.NewIssuer(config.TokenSecret, config.TokenTTL)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build token issuer: %w", err)
	}

	handler, err := BuildRootHandler(store, tokens, config)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build handler: %w", err)
	}

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		httpAddr:   httpAddr,
		httpServer: httpServer,
		store:      store,
	}, nil
}

// BuildRootHandler composes the module groups behind the shared middleware
// stack. The principal resolver runs first so every module sees the same
// request identity.
func BuildRootHandler(store webstorage.Store, tokens *token.Issuer, config Config) (http.Handler, error) {
	scheme := requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}
	resolver := newPrincipalResolver(store, tokens)
	resolvers := resolver.resolvers()

	deps := modules.Dependencies{
		Store:      store,
		Meter:      entitlements.NewMeter(store),
		Tokens:     tokens,
		SessionTTL: config.SessionTTL,
		Scheme:     scheme,
	}

	composed, err := Compose(ComposeInput{
		AuthRequired:        authRequired,
		PublicModules:       modules.DefaultPublicModules(deps, resolvers),
		ProtectedModules:    modules.DefaultProtectedModules(deps, resolvers),
		RequestSchemePolicy: scheme,
	})
	if err != nil {
		return nil, err
	}

	handler := httpx.Chain(composed, httpx.RequestID(), httpx.RecoverPanic())
	handler = resolver.attach(handler)
	return otelhttp.NewHandler(handler, "web"), nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the storage handle held by the server.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close storage: %v", err)
	}
}
