package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"engmarket/internal/models"
	"engmarket/internal/repositories"
	"engmarket/internal/signup"
)

// SignupService drives the onboarding wizard. Each session has at most one
// draft; it is created on first access and removed on finish or abandon.
type SignupService struct {
	Drafts     repositories.SignupDraftRepository
	Log        *zap.Logger
	Now        func() time.Time
	BcryptCost int
}

func (s *SignupService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *SignupService) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

func (s *SignupService) load(ctx context.Context, sessionID string) (models.SignupDraft, error) {
	d, err := s.Drafts.Get(ctx, sessionID)
	if errors.Is(err, models.ErrDraftNotFound) {
		return signup.NewDraft(uuid.NewString(), sessionID, s.now()), nil
	}
	return d, err
}

// Current returns the session's draft, starting one when none exists.
func (s *SignupService) Current(ctx context.Context, sessionID string) (models.SignupDraftView, error) {
	d, err := s.Drafts.Get(ctx, sessionID)
	if errors.Is(err, models.ErrDraftNotFound) {
		d = signup.NewDraft(uuid.NewString(), sessionID, s.now())
		if err := s.Drafts.Save(ctx, d); err != nil {
			return models.SignupDraftView{}, fmt.Errorf("save draft: %w", err)
		}
		s.logger().Debug("sign-up draft started", zap.String("draft_id", d.ID))
	} else if err != nil {
		return models.SignupDraftView{}, err
	}
	return signup.View(d), nil
}

// SubmitAccount stores step one. When validation fails the draft keeps
// the submitted values and the returned error is models.FieldErrors.
func (s *SignupService) SubmitAccount(ctx context.Context, sessionID string, in models.AccountDetails) (models.SignupDraftView, error) {
	d, err := s.load(ctx, sessionID)
	if err != nil {
		return models.SignupDraftView{}, err
	}
	return s.apply(ctx, &d, signup.SubmitAccount(&d, in, s.now()))
}

func (s *SignupService) SubmitProfile(ctx context.Context, sessionID string, in models.ProfessionalProfile) (models.SignupDraftView, error) {
	d, err := s.load(ctx, sessionID)
	if err != nil {
		return models.SignupDraftView{}, err
	}
	return s.apply(ctx, &d, signup.SubmitProfile(&d, in, s.now()))
}

func (s *SignupService) Back(ctx context.Context, sessionID string) (models.SignupDraftView, error) {
	d, err := s.load(ctx, sessionID)
	if err != nil {
		return models.SignupDraftView{}, err
	}
	signup.Back(&d, s.now())
	return s.apply(ctx, &d, nil)
}

// apply persists the draft unless the step was rejected outright.
func (s *SignupService) apply(ctx context.Context, d *models.SignupDraft, stepErr error) (models.SignupDraftView, error) {
	if errors.Is(stepErr, models.ErrWrongStep) {
		return signup.View(*d), stepErr
	}
	if err := s.Drafts.Save(ctx, *d); err != nil {
		return models.SignupDraftView{}, fmt.Errorf("save draft: %w", err)
	}
	return signup.View(*d), stepErr
}

// Finish completes the flow from the confirmation step. Nothing is
// persisted: the password is hashed for the summary and the draft is
// discarded.
func (s *SignupService) Finish(ctx context.Context, sessionID string) (models.Registration, error) {
	d, err := s.Drafts.Get(ctx, sessionID)
	if err != nil {
		return models.Registration{}, err
	}
	if err := signup.Finish(d); err != nil {
		return models.Registration{}, err
	}

	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(d.Account.Password), cost)
	if err != nil {
		return models.Registration{}, fmt.Errorf("hash password: %w", err)
	}

	reg := models.Registration{
		ID:           uuid.NewString(),
		FullName:     d.Account.FullName,
		Email:        d.Account.Email,
		Role:         d.Account.Role,
		PasswordHash: hash,
		CompletedAt:  s.now(),
	}
	if d.Account.Role.OffersServices() {
		profile := d.Profile
		reg.Profile = &profile
	}

	if err := s.Drafts.Delete(ctx, sessionID); err != nil {
		return models.Registration{}, fmt.Errorf("delete draft: %w", err)
	}
	s.logger().Info("sign-up completed",
		zap.String("registration_id", reg.ID),
		zap.String("role", string(reg.Role)),
		zap.Duration("elapsed", reg.CompletedAt.Sub(d.CreatedAt)),
	)
	return reg, nil
}

// Abandon discards the draft. Abandoning without a draft is not an error.
func (s *SignupService) Abandon(ctx context.Context, sessionID string) error {
	return s.Drafts.Delete(ctx, sessionID)
}
