package userauth

import (
	"context"
	"errors"
)

// VerifyAccount resolves the account and checks the credential. The check
// order is fixed: throttle, resolve, password, status. A missing username
// and a wrong password both come back as ErrInvalidCredentials with the
// same message; only the audit metadata records which it was.
func (e *Engine) VerifyAccount(ctx context.Context, username, plaintext string) (*Account, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	ip := clientIPFromContext(ctx)

	if e.loginLimiter != nil {
		if err := e.loginLimiter.Check(ctx, username, ip); err != nil {
			if errors.Is(err, ErrLoginRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, EventLoginRateLimited, false, "", err, map[string]string{"username": username})
			}
			return nil, err
		}
	}

	if plaintext == "" {
		e.recordLoginFailure(ctx, username, ip)
		e.emitAudit(ctx, EventLoginFailure, false, "", ErrInvalidCredentials, map[string]string{
			"username": username,
			"reason":   "empty_password",
		})
		return nil, ErrInvalidCredentials
	}

	account, err := e.userProvider.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.recordLoginFailure(ctx, username, ip)
			e.emitAudit(ctx, EventLoginFailure, false, "", ErrInvalidCredentials, map[string]string{
				"username": username,
				"reason":   "user_not_found",
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !e.hashers.Verify(plaintext, account.PasswordHash) {
		e.recordLoginFailure(ctx, username, ip)
		e.emitAudit(ctx, EventLoginFailure, false, account.ID, ErrInvalidCredentials, map[string]string{
			"username": username,
			"reason":   "password_mismatch",
		})
		return nil, ErrInvalidCredentials
	}

	if account.Status != AccountActive {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, EventLoginFailure, false, account.ID, ErrAccountLocked, map[string]string{
			"username": username,
			"reason":   "account_locked",
		})
		return nil, ErrAccountLocked
	}

	e.maybeUpgradeHash(ctx, account, plaintext)

	if e.loginLimiter != nil {
		if err := e.loginLimiter.Reset(ctx, username, ip); err != nil {
			e.warnf("login limiter reset failed: %v", err)
		}
	}

	// Credential material stays inside the engine.
	account.PasswordHash = ""
	return account, nil
}

// Login authenticates without a captcha challenge, for machine and tooling
// callers. On success the account's last-login timestamp is persisted
// before the token is returned.
func (e *Engine) Login(ctx context.Context, username, plaintext string) (*LoginResult, error) {
	account, err := e.VerifyAccount(ctx, username, plaintext)
	if err != nil {
		return nil, err
	}
	return e.finishLogin(ctx, account)
}

// LoginWithCaptcha authenticates an interactive caller: credentials first,
// then the captcha answer against the stored challenge. The challenge is
// consumed by the attempt whether or not the code matches, so a retry
// needs a fresh challenge.
func (e *Engine) LoginWithCaptcha(ctx context.Context, username, plaintext, captchaCode, captchaID string) (*LoginResult, error) {
	account, err := e.VerifyAccount(ctx, username, plaintext)
	if err != nil {
		return nil, err
	}
	if err := e.verifyCaptcha(ctx, account, captchaCode, captchaID); err != nil {
		return nil, err
	}
	return e.finishLogin(ctx, account)
}

// Logout is advisory: tokens are stateless and stay valid until expiry, so
// this only emits the audit record. The client discards its copy.
func (e *Engine) Logout(ctx context.Context, account *Account) {
	if e == nil || account == nil {
		return
	}
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, EventLogout, true, account.ID, nil, nil)
}

// finishLogin persists last_login and issues the token. A failed or empty
// timestamp write fails the login: the caller must never receive a token
// alongside stale account state.
func (e *Engine) finishLogin(ctx context.Context, account *Account) (*LoginResult, error) {
	now := nowUTC()

	affected, err := e.userProvider.UpdateLoginTime(ctx, account.ID, now)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProviderConflict
	}
	account.LastLogin = now

	token, err := e.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricTokenIssued)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, EventLoginSuccess, true, account.ID, nil, map[string]string{"username": account.Username})

	return &LoginResult{AccessToken: token, Account: account.View()}, nil
}

// maybeUpgradeHash re-encodes a verified credential with the primary
// algorithm and current parameters. Persistence failure only warns; the
// old hash still verifies next time.
func (e *Engine) maybeUpgradeHash(ctx context.Context, account *Account, plaintext string) {
	if !e.config.Password.UpgradeOnLogin || !e.hashers.NeedsUpgrade(account.PasswordHash) {
		return
	}

	upgraded, err := e.hashers.Hash(plaintext)
	if err != nil {
		e.warnf("password hash upgrade failed: %v", err)
		return
	}
	if _, err := e.userProvider.UpdatePasswordHash(ctx, account.ID, upgraded); err != nil {
		e.warnf("password hash upgrade update failed: %v", err)
		return
	}
	account.PasswordHash = upgraded
}

func (e *Engine) recordLoginFailure(ctx context.Context, username, ip string) {
	e.metricInc(MetricLoginFailure)
	if e.loginLimiter == nil {
		return
	}
	if err := e.loginLimiter.RecordFailure(ctx, username, ip); err != nil {
		e.warnf("login limiter record failed: %v", err)
	}
}
