package userauth

import (
	"errors"

	"github.com/nimblecore/userauth/captcha"
	"github.com/nimblecore/userauth/internal/audit"
	"github.com/nimblecore/userauth/internal/limiters"
	"github.com/nimblecore/userauth/internal/metrics"
	"github.com/nimblecore/userauth/internal/stores"
	"github.com/nimblecore/userauth/jwt"
	"github.com/nimblecore/userauth/password"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an Engine. Construction is allocation-only; no I/O
// happens until the first Engine method call.
type Builder struct {
	config       Config
	redis        redis.UniversalClient
	userProvider UserProvider
	auditSink    AuditSink
	built        bool
}

// New returns a Builder loaded with defaults. The JWT secret, the Redis
// client, and the UserProvider have no defaults and must be supplied.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the entire configuration. Call it before the other
// With* methods that touch config fields.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the token signing secret.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.JWT.Secret = append([]byte(nil), secret...)
	return b
}

// WithRedis sets the client backing the captcha store and login throttle.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider sets the persistence collaborator.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink sets the sink receiving audit events. Defaults to NoOpSink
// when auditing is enabled without one.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the engine. A Builder may
// only build once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	hashers, err := buildHasherChain(b.config.Password)
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		Secret:    b.config.JWT.Secret,
		AccessTTL: b.config.JWT.AccessTTL,
		Issuer:    b.config.JWT.Issuer,
		Leeway:    b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	captchaGen, err := captcha.NewGenerator(captcha.Config{
		Length:     b.config.Captcha.Length,
		Width:      b.config.Captcha.Width,
		Height:     b.config.Captcha.Height,
		NoiseCount: b.config.Captcha.NoiseCount,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       b.config,
		userProvider: b.userProvider,
		hashers:      hashers,
		tokens:       tokens,
		captchaGen:   captchaGen,
		captchaStore: stores.NewCaptchaStore(b.redis, b.config.Captcha.RedisPrefix),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    b.config.Audit.Enabled,
			BufferSize: b.config.Audit.BufferSize,
			DropIfFull: b.config.Audit.DropIfFull,
		}, b.auditSink),
		metrics: metrics.New(metrics.Config{Enabled: b.config.Metrics.Enabled}),
	}

	if b.config.Login.EnableThrottle {
		engine.loginLimiter = limiters.NewLoginLimiter(b.redis, limiters.LoginConfig{
			MaxAttempts: b.config.Login.MaxAttempts,
			Window:      b.config.Login.Window,
			Prefix:      b.config.Login.RedisPrefix,
		})
	}

	b.built = true
	return engine, nil
}

// buildHasherChain wires the configured primary in front of the other
// algorithm, so stored hashes from either keep verifying and migrate to
// the primary on login.
func buildHasherChain(cfg PasswordConfig) (*password.Chain, error) {
	argon, err := password.NewArgon2(password.Argon2Config{
		Memory:      cfg.Memory,
		Time:        cfg.Time,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	bc, err := password.NewBcrypt(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	switch cfg.Algorithm {
	case AlgorithmBcrypt:
		return password.NewChain(bc, argon), nil
	default:
		return password.NewChain(argon, bc), nil
	}
}
