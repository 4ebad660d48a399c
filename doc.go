// Package userauth provides an embeddable authentication engine for a
// single-tenant user-account backend: credential verification with pluggable
// password hashing, stateless HMAC-signed bearer tokens, and a short-lived
// image captcha challenge bound to a Redis-held correlation id.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// userauth is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (LoginResult, AccountView, AuditEvent, MetricsSnapshot).
// Redis key layouts, captcha binding, and rate limiting live under internal/
// and are never exported.
//
// HTTP routing, request envelopes, ORM access, email delivery, and avatar
// storage are the caller's concern. The engine reaches persistence only
// through the [UserProvider] interface and ephemeral state only through the
// Redis client handed to the builder.
//
// # Token model
//
// Tokens are self-contained: validity is determined solely by signature and
// expiry. There is no server-side revocation list; [Engine.Logout] is
// advisory and an issued token stays valid until its expiry window passes.
// Rotating the signing secret invalidates every outstanding token; treat
// that as an operational event, not an error.
package userauth
