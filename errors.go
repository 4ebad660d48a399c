package userauth

import (
	"errors"

	"github.com/nimblecore/userauth/internal/limiters"
	"github.com/nimblecore/userauth/internal/stores"
	"github.com/nimblecore/userauth/jwt"
)

var (
	// ErrInvalidCredentials is returned when the username does not exist or
	// the password does not match. The two cases are deliberately not
	// distinguishable so callers cannot enumerate registered usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountLocked is returned when credentials are correct but the
	// account status flag disallows login.
	ErrAccountLocked = errors.New("account locked")
	// ErrUserNotFound is returned by administrative lookups for a missing
	// account. Login paths never return it; they use ErrInvalidCredentials.
	ErrUserNotFound = errors.New("user not found")
	// ErrPermissionDenied is returned when an authorization check fails:
	// the actor is not a superuser, or attempts to modify its own
	// superuser/status flags.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUsernameTaken is returned by Register for a duplicate username.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrEmailTaken is returned by Register for a duplicate email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPasswordEmpty is returned by Register for an empty password.
	ErrPasswordEmpty = errors.New("password must not be empty")
	// ErrPasswordMismatch is returned by ChangePassword when the new
	// password and its confirmation differ.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	// ErrInvalidOldPassword is returned by ChangePassword when the current
	// password does not verify.
	ErrInvalidOldPassword = errors.New("old password incorrect")

	// ErrProviderConflict is returned when a provider write reports zero
	// affected rows, e.g. the account vanished between lookup and update.
	ErrProviderConflict = errors.New("account state changed concurrently")
	// ErrEngineNotReady is returned when an Engine method is called on an
	// engine missing a required collaborator.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Token errors are defined next to the codec so it stays importable on its
// own; the root aliases keep errors.Is checks working against either name.
var (
	// ErrTokenInvalid covers malformed payloads, wrong signing algorithms,
	// and signatures that do not verify.
	ErrTokenInvalid = jwt.ErrTokenInvalid
	// ErrTokenExpired is returned for a well-formed, correctly signed token
	// whose expiry has passed, so callers can prompt "log in again" rather
	// than "session invalid".
	ErrTokenExpired = jwt.ErrTokenExpired
)

var (
	// ErrCaptchaNotFound is returned when no challenge exists for the
	// correlation id: expired, never issued, or already consumed.
	ErrCaptchaNotFound = stores.ErrCaptchaNotFound
	// ErrCaptchaMismatch is returned when the challenge exists but the
	// submitted code is wrong. The challenge is consumed regardless.
	ErrCaptchaMismatch = stores.ErrCaptchaMismatch
	// ErrCaptchaUnavailable is returned when the captcha backend cannot be
	// reached. It wraps the underlying Redis error.
	ErrCaptchaUnavailable = stores.ErrCaptchaRedisUnavailable

	// ErrLoginRateLimited is returned when the login throttle window for
	// the username or client IP is exhausted.
	ErrLoginRateLimited = limiters.ErrLoginRateLimited
)
