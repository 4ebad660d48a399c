package userauth

import (
	"context"
	"log"
	"time"

	"github.com/nimblecore/userauth/captcha"
	"github.com/nimblecore/userauth/internal/audit"
	"github.com/nimblecore/userauth/internal/limiters"
	"github.com/nimblecore/userauth/internal/metrics"
	"github.com/nimblecore/userauth/internal/stores"
	"github.com/nimblecore/userauth/jwt"
	"github.com/nimblecore/userauth/password"
)

// Engine orchestrates credential verification, token issuance, and the
// captcha challenge against the caller's UserProvider. Construct it
// through Builder; a zero Engine is not usable.
type Engine struct {
	config       Config
	userProvider UserProvider
	hashers      *password.Chain
	tokens       *jwt.Manager
	captchaGen   *captcha.Generator
	captchaStore *stores.CaptchaStore
	loginLimiter *limiters.LoginLimiter
	audit        *audit.Dispatcher
	metrics      *metrics.Metrics
}

// Close flushes the audit dispatcher. Safe on a nil engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events lost to a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// TokenTTL returns the configured access-token lifetime, for callers that
// align cookie or cache expiry with it.
func (e *Engine) TokenTTL() time.Duration {
	if e == nil || e.tokens == nil {
		return 0
	}
	return e.tokens.TTL()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return metrics.Snapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

func (e *Engine) ready() error {
	if e == nil || e.userProvider == nil || e.hashers == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	return nil
}

func (e *Engine) warnf(format string, args ...any) {
	log.Printf("userauth: "+format, args...)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, userID string, opErr error, metadata map[string]string) {
	if e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: nowUTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	e.audit.Emit(ctx, event)
}
