package userauth

import (
	"io"

	"github.com/nimblecore/userauth/internal/audit"
)

// AuditEvent is a structured audit record emitted by the engine. Events
// never carry plaintext passwords, raw tokens, or captcha codes.
type AuditEvent = audit.Event

// AuditSink receives AuditEvent values from the engine's dispatcher.
type AuditSink = audit.Sink

// NoOpSink is an AuditSink that silently discards all events.
type NoOpSink = audit.NoOpSink

// ChannelSink is a buffered channel-based AuditSink.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes JSON-encoded events, one per line.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink creates a ChannelSink with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a JSONWriterSink that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// Audit event types emitted by the engine.
const (
	EventLoginSuccess     = "login_success"
	EventLoginFailure     = "login_failure"
	EventLoginRateLimited = "login_rate_limited"
	EventCaptchaIssued    = "captcha_issued"
	EventCaptchaFailure   = "captcha_failure"
	EventTokenRejected    = "token_rejected"
	EventAccountCreated   = "account_created"
	EventPasswordChanged  = "password_changed"
	EventUserinfoChanged  = "userinfo_changed"
	EventFlagsChanged     = "flags_changed"
	EventAccountDeleted   = "account_deleted"
	EventLogout           = "logout"
)
