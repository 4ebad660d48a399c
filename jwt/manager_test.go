package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = testSecret
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = time.Hour
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestIssueParseRoundTrip(t *testing.T) {
	m := testManager(t, Config{Issuer: "userauth-test"})

	token, err := m.Issue("u42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "u42" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if claims.Issuer != "userauth-test" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != time.Hour {
		t.Fatalf("ttl = %v", ttl)
	}
	if m.TTL() != time.Hour {
		t.Fatalf("TTL = %v", m.TTL())
	}
}

func TestParseExpired(t *testing.T) {
	m := testManager(t, Config{})

	token := signRaw(t, jwtlib.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Hour)),
	}, testSecret)

	if _, err := m.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestParseLeewayAcceptsJustExpired(t *testing.T) {
	m := testManager(t, Config{Leeway: time.Minute})

	token := signRaw(t, jwtlib.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-time.Hour)),
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-10 * time.Second)),
	}, testSecret)

	if _, err := m.Parse(token); err != nil {
		t.Fatalf("token inside leeway rejected: %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	m := testManager(t, Config{})

	token := signRaw(t, jwtlib.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}, []byte("another-secret-another-secret-32"))

	if _, err := m.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestParseRejectsUnexpectedAlgorithm(t *testing.T) {
	m := testManager(t, Config{})

	// alg=none tokens must never pass, whatever their claims say.
	unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestParseRequiresExpiry(t *testing.T) {
	m := testManager(t, Config{})

	token := signRaw(t, jwtlib.RegisteredClaims{Subject: "u1"}, testSecret)
	if _, err := m.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid for missing exp", err)
	}
}

func TestParseRequiresSubject(t *testing.T) {
	m := testManager(t, Config{})

	token := signRaw(t, jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}, testSecret)
	if _, err := m.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid for missing sub", err)
	}
}

func TestParseEnforcesIssuer(t *testing.T) {
	m := testManager(t, Config{Issuer: "userauth"})

	token := signRaw(t, jwtlib.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "someone-else",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}, testSecret)
	if _, err := m.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid for wrong issuer", err)
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{AccessTTL: time.Hour}); err == nil {
		t.Fatal("accepted empty secret")
	}
	if _, err := NewManager(Config{Secret: testSecret}); err == nil {
		t.Fatal("accepted zero ttl")
	}
	if _, err := NewManager(Config{Secret: testSecret, AccessTTL: time.Hour, Leeway: 5 * time.Minute}); err == nil {
		t.Fatal("accepted excessive leeway")
	}
}

func signRaw(t *testing.T, claims jwtlib.RegisteredClaims, secret []byte) string {
	t.Helper()
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return token
}
