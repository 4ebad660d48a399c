// Package jwt encodes and decodes the engine's stateless bearer tokens:
// an HMAC-SHA256 signed claim set carrying the account identifier as
// subject, with a fixed expiry window from issuance. There is no sliding
// expiration and no refresh token; a token stays valid until exp.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid reports a malformed token, an unexpected signing
	// algorithm, or a signature that does not verify.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired reports a correctly signed token past its expiry.
	// Kept distinct from ErrTokenInvalid so callers can prompt a re-login
	// instead of treating the session as hostile.
	ErrTokenExpired = errors.New("token expired")
)

// Config holds the codec configuration. The secret is loaded once at
// process start; rotating it invalidates all outstanding tokens.
type Config struct {
	Secret    []byte
	AccessTTL time.Duration
	Issuer    string
	Leeway    time.Duration
}

// Claims is the signed claim set. Subject is the account identifier.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and parses tokens. It is pure CPU work and safe for
// concurrent use.
type Manager struct {
	cfg    Config
	parser *jwt.Parser
}

// NewManager validates the configuration and returns a codec.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret required")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("jwt access ttl must be positive")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("jwt leeway out of range")
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Leeway > 0 {
		options = append(options, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}

	return &Manager{cfg: cfg, parser: jwt.NewParser(options...)}, nil
}

// Issue signs a claim set for subject with iat=now and exp=now+AccessTTL.
func (m *Manager) Issue(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.AccessTTL)),
		},
	}
	if m.cfg.Issuer != "" {
		claims.Issuer = m.cfg.Issuer
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
}

// Parse verifies signature and expiry and returns the claim set. The only
// error values are ErrTokenExpired and ErrTokenInvalid; a token that fails
// signature verification is invalid even if it is also past exp.
func (m *Manager) Parse(token string) (*Claims, error) {
	parsed, err := m.parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.cfg.Secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// TTL returns the configured expiry window.
func (m *Manager) TTL() time.Duration {
	return m.cfg.AccessTTL
}
