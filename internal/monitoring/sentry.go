// Package monitoring wires Sentry error tracking into the HTTP stack.
package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SentryMonitor reports panics and captured errors to Sentry. A monitor built
// without a DSN is inert, so callers never need nil checks.
type SentryMonitor struct {
	enabled bool
	logger  *zap.Logger
}

// SentryConfig holds Sentry initialization settings.
type SentryConfig struct {
	DSN              string
	Environment      string
	Release          string
	ServiceName      string
	TracesSampleRate float64
}

// NewSentryMonitor initializes the Sentry SDK.
func NewSentryMonitor(cfg *SentryConfig, logger *zap.Logger) (*SentryMonitor, error) {
	if cfg.DSN == "" {
		logger.Info("Sentry DSN not configured, error tracking disabled")
		return &SentryMonitor{enabled: false, logger: logger}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		ServerName:       cfg.ServiceName,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return &SentryMonitor{enabled: false, logger: logger}, err
	}

	logger.Info("Sentry initialized", zap.String("environment", cfg.Environment))
	return &SentryMonitor{enabled: true, logger: logger}, nil
}

// GinMiddleware attaches the Sentry hub to each request.
func (m *SentryMonitor) GinMiddleware() gin.HandlerFunc {
	if !m.enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// RecoveryMiddleware converts panics into 500s after Sentry has seen them.
func (m *SentryMonitor) RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}

// CaptureError reports a non-fatal error.
func (m *SentryMonitor) CaptureError(err error) {
	if m.enabled && err != nil {
		sentry.CaptureException(err)
	}
}

// Flush drains pending events, called on shutdown.
func (m *SentryMonitor) Flush(timeout time.Duration) {
	if m.enabled {
		sentry.Flush(timeout)
	}
}
