package userauth

import "github.com/nimblecore/userauth/internal/metrics"

// MetricID identifies a counter in the in-process metrics system.
type MetricID = metrics.MetricID

const (
	MetricLoginSuccess     = metrics.MetricLoginSuccess
	MetricLoginFailure     = metrics.MetricLoginFailure
	MetricLoginRateLimited = metrics.MetricLoginRateLimited
	MetricCaptchaIssued    = metrics.MetricCaptchaIssued
	MetricCaptchaFailure   = metrics.MetricCaptchaFailure
	MetricTokenIssued      = metrics.MetricTokenIssued
	MetricTokenRejected    = metrics.MetricTokenRejected
	MetricAccountCreated   = metrics.MetricAccountCreated
	MetricPasswordChanged  = metrics.MetricPasswordChanged
	MetricUserinfoChanged  = metrics.MetricUserinfoChanged
	MetricFlagsChanged     = metrics.MetricFlagsChanged
	MetricAccountDeleted   = metrics.MetricAccountDeleted
	MetricLogout           = metrics.MetricLogout
)

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot = metrics.Snapshot
