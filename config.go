package userauth

import (
	"errors"
	"time"

	"github.com/nimblecore/userauth/captcha"
)

// Config is the immutable engine configuration. It is copied at Build time
// and injected into every component; nothing in the engine reads ambient
// global state afterwards.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Captcha  CaptchaConfig
	Login    LoginConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures the token codec. Secret is required; rotating it
// invalidates all previously issued tokens.
type JWTConfig struct {
	Secret    []byte
	AccessTTL time.Duration
	Issuer    string
	Leeway    time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordAlgorithm selects the primary hasher. Hashes produced by the
// non-primary algorithm still verify and are transparently upgraded on
// login when UpgradeOnLogin is set.
type PasswordAlgorithm string

const (
	// AlgorithmArgon2id hashes with Argon2id in PHC string format.
	AlgorithmArgon2id PasswordAlgorithm = "argon2id"
	// AlgorithmBcrypt hashes with bcrypt in modular-crypt format.
	AlgorithmBcrypt PasswordAlgorithm = "bcrypt"
)

// PasswordConfig carries parameters for both hash algorithms. Memory is
// in KB.
type PasswordConfig struct {
	Algorithm      PasswordAlgorithm
	Memory         uint32
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	BcryptCost     int
	UpgradeOnLogin bool
}

/*
====================================
CAPTCHA CONFIG
====================================
*/

// CaptchaConfig controls challenge rendering and binding. TTL is the
// window between issuing a challenge and the latest acceptable answer.
type CaptchaConfig struct {
	TTL         time.Duration
	Length      int
	Width       int
	Height      int
	NoiseCount  int
	RedisPrefix string
}

/*
====================================
LOGIN THROTTLE CONFIG
====================================
*/

// LoginConfig controls the fixed-window login attempt throttle. Challenge
// creation throttling is an upstream middleware concern and not covered
// here.
type LoginConfig struct {
	EnableThrottle bool
	MaxAttempts    int
	Window         time.Duration
	RedisPrefix    string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL: 24 * time.Hour,
			Leeway:    30 * time.Second,
		},
		Password: PasswordConfig{
			Algorithm:      AlgorithmArgon2id,
			Memory:         64 * 1024,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			BcryptCost:     12,
			UpgradeOnLogin: true,
		},
		Captcha: CaptchaConfig{
			TTL:         5 * time.Minute,
			Length:      4,
			Width:       140,
			Height:      48,
			NoiseCount:  2,
			RedisPrefix: "ua:captcha",
		},
		Login: LoginConfig{
			EnableThrottle: true,
			MaxAttempts:    5,
			Window:         15 * time.Minute,
			RedisPrefix:    "ua:login",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = append([]byte(nil), cfg.JWT.Secret...)
	return out
}

func validateConfig(cfg Config) error {
	if len(cfg.JWT.Secret) < 32 {
		return errors.New("jwt secret must be at least 32 bytes")
	}
	if cfg.JWT.AccessTTL <= 0 {
		return errors.New("jwt access ttl must be positive")
	}
	if cfg.JWT.Leeway < 0 || cfg.JWT.Leeway > 2*time.Minute {
		return errors.New("jwt leeway out of range")
	}

	switch cfg.Password.Algorithm {
	case AlgorithmArgon2id, AlgorithmBcrypt:
	default:
		return errors.New("unsupported password algorithm")
	}

	if cfg.Captcha.TTL <= 0 {
		return errors.New("captcha ttl must be positive")
	}
	if cfg.Captcha.Length < captcha.MinLength || cfg.Captcha.Length > captcha.MaxLength {
		return errors.New("captcha length out of range")
	}
	if cfg.Captcha.Width <= 0 || cfg.Captcha.Height <= 0 {
		return errors.New("captcha dimensions must be positive")
	}

	if cfg.Login.EnableThrottle {
		if cfg.Login.MaxAttempts <= 0 {
			return errors.New("login max attempts must be positive")
		}
		if cfg.Login.Window <= 0 {
			return errors.New("login throttle window must be positive")
		}
	}

	return nil
}
