package userauth

import (
	"context"
	"errors"
)

// Register creates an account after uniqueness checks on username and
// email. The password is hashed with the primary algorithm before the
// provider sees it.
func (e *Engine) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, ErrPasswordEmpty
	}

	if _, err := e.userProvider.GetByUsername(ctx, input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if _, err := e.userProvider.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := e.hashers.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account, err := e.userProvider.Create(ctx, CreateAccountInput{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Avatar:       input.Avatar,
	})
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricAccountCreated)
	e.emitAudit(ctx, EventAccountCreated, true, account.ID, nil, map[string]string{"username": account.Username})
	return account, nil
}

// GetAccount looks up an account by username for administrative callers.
// Unlike the login path this reports a missing account as ErrUserNotFound.
func (e *Engine) GetAccount(ctx context.Context, username string) (AccountView, error) {
	if err := e.ready(); err != nil {
		return AccountView{}, err
	}
	account, err := e.userProvider.GetByUsername(ctx, username)
	if err != nil {
		return AccountView{}, err
	}
	return account.View(), nil
}

// UpdateUserinfo changes the target's username and email. The actor must
// be a superuser. Uniqueness is only re-checked for a field that actually
// changes, so writing back the current value is not a self-collision.
func (e *Engine) UpdateUserinfo(ctx context.Context, actor *Account, username string, update UserinfoUpdate) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.RequireSuperuser(actor); err != nil {
		return err
	}

	target, err := e.userProvider.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if update.Username != target.Username {
		if _, err := e.userProvider.GetByUsername(ctx, update.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}
	}
	if update.Email != target.Email {
		if _, err := e.userProvider.GetByEmail(ctx, update.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}
	}

	affected, err := e.userProvider.UpdateInfo(ctx, target.ID, update)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProviderConflict
	}

	e.metricInc(MetricUserinfoChanged)
	e.emitAudit(ctx, EventUserinfoChanged, true, actor.ID, nil, map[string]string{"target": target.ID})
	return nil
}

// ChangePassword verifies the current password, checks the confirmation,
// and stores a hash produced by the primary algorithm. The old-password
// check runs against whatever algorithm produced the stored hash, so a
// reset also completes a pending migration.
func (e *Engine) ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error {
	if err := e.ready(); err != nil {
		return err
	}

	account, err := e.userProvider.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !e.hashers.Verify(oldPassword, account.PasswordHash) {
		return ErrInvalidOldPassword
	}
	if newPassword == "" {
		return ErrPasswordEmpty
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}

	hash, err := e.hashers.Hash(newPassword)
	if err != nil {
		return err
	}

	affected, err := e.userProvider.UpdatePasswordHash(ctx, account.ID, hash)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProviderConflict
	}

	e.metricInc(MetricPasswordChanged)
	e.emitAudit(ctx, EventPasswordChanged, true, account.ID, nil, nil)
	return nil
}

// UpdateAvatar stores a new avatar reference for the account.
func (e *Engine) UpdateAvatar(ctx context.Context, username, avatar string) error {
	if err := e.ready(); err != nil {
		return err
	}

	account, err := e.userProvider.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	affected, err := e.userProvider.UpdateAvatar(ctx, account.ID, avatar)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProviderConflict
	}
	return nil
}

// DeleteAccount removes the target account. Only a superuser may delete,
// and deleting is distinct from logout: the record is gone, though issued
// tokens only die when ResolveCurrentUser stops finding the subject.
func (e *Engine) DeleteAccount(ctx context.Context, actor *Account, username string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.RequireSuperuser(actor); err != nil {
		return err
	}

	target, err := e.userProvider.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	affected, err := e.userProvider.Delete(ctx, target.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProviderConflict
	}

	e.metricInc(MetricAccountDeleted)
	e.emitAudit(ctx, EventAccountDeleted, true, actor.ID, nil, map[string]string{"target": target.ID})
	return nil
}
