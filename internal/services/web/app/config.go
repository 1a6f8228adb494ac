package app

import (
	"time"
)

// Config captures the inputs needed to build a web server.
type Config struct {
	// HTTPAddr is the listen address, e.g. "localhost:8080".
	HTTPAddr string
	// DatabasePath locates the SQLite database file.
	DatabasePath string
	// TokenSecret signs API access tokens.
	TokenSecret []byte
	// TokenTTL bounds API access token lifetime.
	TokenTTL time.Duration
	// SessionTTL bounds browser session lifetime.
	SessionTTL time.Duration
	// TrustForwardedProto enables X-Forwarded-Proto scheme resolution for
	// deployments behind a TLS-terminating proxy.
	TrustForwardedProto bool
}
