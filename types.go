package userauth

import (
	"context"
	"time"
)

// AccountStatus is the lifecycle state of a user account. Only active
// accounts may log in.
type AccountStatus uint8

const (
	// AccountActive allows login and token resolution.
	AccountActive AccountStatus = iota
	// AccountLockedStatus blocks login and token resolution. Existing
	// tokens cannot be revoked, but ResolveCurrentUser rejects the subject
	// once the flag flips.
	AccountLockedStatus
)

// Account is the full account record exchanged with the UserProvider.
// PasswordHash never leaves the engine; hand callers the View projection.
type Account struct {
	ID           string
	Username     string
	Email        string
	Avatar       string
	PasswordHash string
	Status       AccountStatus
	IsSuperuser  bool
	CreatedAt    time.Time
	LastLogin    time.Time
}

// View returns the caller-facing projection without credential material.
func (a *Account) View() AccountView {
	return AccountView{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Avatar:      a.Avatar,
		Status:      a.Status,
		IsSuperuser: a.IsSuperuser,
		CreatedAt:   a.CreatedAt,
		LastLogin:   a.LastLogin,
	}
}

// AccountView is the projection returned alongside tokens and from
// administrative lookups.
type AccountView struct {
	ID          string
	Username    string
	Email       string
	Avatar      string
	Status      AccountStatus
	IsSuperuser bool
	CreatedAt   time.Time
	LastLogin   time.Time
}

// FlagUpdate carries a partial update of the administrative flags. Nil
// fields are left untouched by the provider.
type FlagUpdate struct {
	Status      *AccountStatus
	IsSuperuser *bool
}

// UserinfoUpdate carries the mutable profile identity fields. Both are
// written as given; the engine has already checked uniqueness for any
// field that differs from the current record.
type UserinfoUpdate struct {
	Username string
	Email    string
}

// CreateAccountInput is the record handed to UserProvider.Create. The
// password arrives pre-hashed; providers never see plaintext.
type CreateAccountInput struct {
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
}

// UserProvider is the persistence contract callers implement to integrate
// the engine with their user database. Lookups return ErrUserNotFound for
// missing accounts. Update methods return the number of affected rows so
// the engine can detect writes that silently hit nothing; their atomicity
// is the provider's transaction concern.
type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, input CreateAccountInput) (*Account, error)
	UpdateLoginTime(ctx context.Context, id string, at time.Time) (int64, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) (int64, error)
	UpdateFlags(ctx context.Context, id string, update FlagUpdate) (int64, error)
	UpdateInfo(ctx context.Context, id string, update UserinfoUpdate) (int64, error)
	UpdateAvatar(ctx context.Context, id string, avatar string) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// RegisterInput is the input for Engine.Register.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Avatar   string
}

// LoginResult is returned by Engine.Login and Engine.LoginWithCaptcha.
type LoginResult struct {
	AccessToken string
	Account     AccountView
}

// CaptchaChallenge is returned by Engine.IssueCaptcha. ID is the opaque
// correlation id the client must echo back; Image is a PNG rendering of
// the code.
type CaptchaChallenge struct {
	ID    string
	Image []byte
}
