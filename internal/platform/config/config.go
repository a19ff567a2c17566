package config

import (
	"os"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr              string
	DatabaseURL       string
	SessionSigningKey string
	SessionTTL        time.Duration
	// GateTarget is the base URL of the authoritative billing-status
	// endpoint the edge gate consults. Defaults to this process itself.
	GateTarget  string
	GateTimeout time.Duration
}

var (
	DefaultSessionTTL  = 12 * time.Hour
	DefaultGateTimeout = 5 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CLIENTDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signingKey := os.Getenv("CLIENTDESK_SESSION_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	sessionTTL := DefaultSessionTTL
	if v := os.Getenv("CLIENTDESK_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			sessionTTL = d
		}
	}

	gateTarget := os.Getenv("CLIENTDESK_GATE_TARGET")
	if gateTarget == "" {
		gateTarget = "http://127.0.0.1" + addr
	}

	gateTimeout := DefaultGateTimeout
	if v := os.Getenv("CLIENTDESK_GATE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			gateTimeout = d
		}
	}

	return Server{
		Addr:              addr,
		DatabaseURL:       os.Getenv("CLIENTDESK_DATABASE_URL"),
		SessionSigningKey: signingKey,
		SessionTTL:        sessionTTL,
		GateTarget:        gateTarget,
		GateTimeout:       gateTimeout,
	}
}
