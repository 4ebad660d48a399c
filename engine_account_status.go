package userauth

import "context"

// SetSuperuser toggles the target's superuser flag. The actor must be a
// superuser and must not be the target: elevation and demotion always go
// through another administrator.
func (e *Engine) SetSuperuser(ctx context.Context, actor *Account, targetID string) (bool, error) {
	target, err := e.resolveFlagTarget(ctx, actor, targetID)
	if err != nil {
		return false, err
	}

	next := !target.IsSuperuser
	if err := e.applyFlags(ctx, actor, target, FlagUpdate{IsSuperuser: &next}, "superuser"); err != nil {
		return false, err
	}
	return next, nil
}

// SetStatus toggles the target between active and locked. Locking takes
// effect on the next token resolution; an outstanding token cannot be
// revoked early.
func (e *Engine) SetStatus(ctx context.Context, actor *Account, targetID string) (AccountStatus, error) {
	target, err := e.resolveFlagTarget(ctx, actor, targetID)
	if err != nil {
		return AccountActive, err
	}

	next := AccountActive
	if target.Status == AccountActive {
		next = AccountLockedStatus
	}
	if err := e.applyFlags(ctx, actor, target, FlagUpdate{Status: &next}, "status"); err != nil {
		return AccountActive, err
	}
	return next, nil
}

func (e *Engine) resolveFlagTarget(ctx context.Context, actor *Account, targetID string) (*Account, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := e.RequireSuperuser(actor); err != nil {
		return nil, err
	}
	if err := e.GuardSelfModification(actor, targetID); err != nil {
		return nil, err
	}
	return e.userProvider.GetByID(ctx, targetID)
}

func (e *Engine) applyFlags(ctx context.Context, actor, target *Account, update FlagUpdate, flag string) error {
	affected, err := e.userProvider.UpdateFlags(ctx, target.ID, update)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProviderConflict
	}

	e.metricInc(MetricFlagsChanged)
	e.emitAudit(ctx, EventFlagsChanged, true, actor.ID, nil, map[string]string{
		"target": target.ID,
		"flag":   flag,
	})
	return nil
}
