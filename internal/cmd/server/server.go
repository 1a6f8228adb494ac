// Package server parses web server command flags and runs the HTTP service.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	platformcmd "github.com/cosmichub/cosmichub/internal/platform/cmd"
	"github.com/cosmichub/cosmichub/internal/services/web/app"
)

// Config holds the web server command configuration.
type Config struct {
	HTTPAddr            string        `env:"COSMICHUB_HTTP_ADDR"            envDefault:"localhost:8080"`
	DatabasePath        string        `env:"COSMICHUB_DB_PATH"              envDefault:"cosmichub.db"`
	TokenSecret         string        `env:"COSMICHUB_TOKEN_SECRET"`
	TokenTTL            time.Duration `env:"COSMICHUB_TOKEN_TTL"            envDefault:"1h"`
	SessionTTL          time.Duration `env:"COSMICHUB_SESSION_TTL"          envDefault:"720h"`
	TrustForwardedProto bool          `env:"COSMICHUB_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DatabasePath, "db-path", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "API token signing secret")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "API token lifetime")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "browser session lifetime")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "trust X-Forwarded-Proto from a fronting proxy")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	if cfg.TokenSecret == "" {
		return Config{}, errors.New("token secret is required (COSMICHUB_TOKEN_SECRET)")
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceWeb, func(ctx context.Context) error {
		server, err := app.NewServer(app.Config{
			HTTPAddr:            cfg.HTTPAddr,
			DatabasePath:        cfg.DatabasePath,
			TokenSecret:         []byte(cfg.TokenSecret),
			TokenTTL:            cfg.TokenTTL,
			SessionTTL:          cfg.SessionTTL,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
