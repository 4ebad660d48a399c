package userauth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// IssueCaptcha renders a fresh challenge and binds its code to a new
// correlation id for the configured TTL. The caller delivers the image to
// the client and echoes the id back on login (typically via a cookie).
// Throttling issuance is the caller's middleware concern.
func (e *Engine) IssueCaptcha(ctx context.Context) (*CaptchaChallenge, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	code, image, err := e.captchaGen.Generate()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if err := e.captchaStore.Save(ctx, id, code, e.config.Captcha.TTL); err != nil {
		return nil, err
	}

	e.metricInc(MetricCaptchaIssued)
	e.emitAudit(ctx, EventCaptchaIssued, true, "", nil, map[string]string{"captcha_id": id})

	return &CaptchaChallenge{ID: id, Image: image}, nil
}

// verifyCaptcha consumes the challenge and distinguishes "gone" from
// "wrong": an expired or already-used id and a mismatched code surface as
// different errors so the routing layer can word them differently.
func (e *Engine) verifyCaptcha(ctx context.Context, account *Account, submitted, id string) error {
	if id == "" || submitted == "" {
		e.metricInc(MetricCaptchaFailure)
		e.emitAudit(ctx, EventCaptchaFailure, false, account.ID, ErrCaptchaNotFound, map[string]string{"reason": "missing_answer"})
		return ErrCaptchaNotFound
	}

	err := e.captchaStore.Consume(ctx, id, submitted)
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCaptchaNotFound) || errors.Is(err, ErrCaptchaMismatch) {
		e.metricInc(MetricCaptchaFailure)
		e.emitAudit(ctx, EventCaptchaFailure, false, account.ID, err, map[string]string{"captcha_id": id})
	}
	return err
}
