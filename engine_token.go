package userauth

import (
	"context"
	"errors"
)

// ResolveCurrentUser decodes a bearer token and resolves its subject to a
// live account. A token whose subject no longer exists is reported as
// ErrTokenInvalid, not ErrUserNotFound, so a deleted account's old token
// reads the same as a forged one. A locked subject fails ErrAccountLocked
// even with a valid token.
func (e *Engine) ResolveCurrentUser(ctx context.Context, token string) (*Account, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		e.emitAudit(ctx, EventTokenRejected, false, "", err, nil)
		return nil, err
	}

	account, err := e.userProvider.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricTokenRejected)
			e.emitAudit(ctx, EventTokenRejected, false, claims.Subject, ErrTokenInvalid, map[string]string{"reason": "subject_gone"})
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	if account.Status != AccountActive {
		return nil, ErrAccountLocked
	}

	// Credential material stays inside the engine.
	account.PasswordHash = ""
	return account, nil
}

// RequireSuperuser gates administrative operations.
func (e *Engine) RequireSuperuser(account *Account) error {
	if account == nil || !account.IsSuperuser {
		return ErrPermissionDenied
	}
	return nil
}

// GuardSelfModification rejects an actor operating on its own account.
// Superuser status does not exempt it: an administrator must not flip its
// own elevated or active flags through this path.
func (e *Engine) GuardSelfModification(actor *Account, targetID string) error {
	if actor == nil || actor.ID == targetID {
		return ErrPermissionDenied
	}
	return nil
}
