// Package signup implements the onboarding wizard: account details, an
// optional professional profile for service-offering roles, and a final
// confirmation step.
package signup

import (
	"time"

	"engmarket/internal/models"
)

// transitions lists the forward moves; the profile step is only reachable
// when the role offers services.
var transitions = map[models.SignupStep]map[models.SignupStep]struct{}{
	models.StepAccount:      {models.StepProfile: {}, models.StepConfirmation: {}},
	models.StepProfile:      {models.StepConfirmation: {}},
	models.StepConfirmation: {},
}

// CanTransition reports whether the wizard may move forward from one step
// to another for the given role.
func CanTransition(from, to models.SignupStep, role models.SignupRole) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	if _, ok := allowed[to]; !ok {
		return false
	}
	return Next(from, role) == to
}

// Next returns the step that follows a successful submission of step.
func Next(step models.SignupStep, role models.SignupRole) models.SignupStep {
	switch step {
	case models.StepAccount:
		if role.OffersServices() {
			return models.StepProfile
		}
		return models.StepConfirmation
	case models.StepProfile:
		return models.StepConfirmation
	}
	return step
}

// Prev returns the step reached by going back from step.
func Prev(step models.SignupStep, role models.SignupRole) models.SignupStep {
	switch step {
	case models.StepConfirmation:
		if role.OffersServices() {
			return models.StepProfile
		}
		return models.StepAccount
	case models.StepProfile:
		return models.StepAccount
	}
	return models.StepAccount
}

// Steps returns the steps a role walks through.
func Steps(role models.SignupRole) []models.SignupStep {
	if role.OffersServices() {
		return []models.SignupStep{models.StepAccount, models.StepProfile, models.StepConfirmation}
	}
	return []models.SignupStep{models.StepAccount, models.StepConfirmation}
}

// Progress returns the 1-based position of the draft's step and the number
// of steps for its role.
func Progress(d models.SignupDraft) (int, int) {
	steps := Steps(d.Account.Role)
	for i, s := range steps {
		if s == d.Step {
			return i + 1, len(steps)
		}
	}
	return 1, len(steps)
}

// NewDraft starts a wizard session on the account step.
func NewDraft(id, sessionID string, now time.Time) models.SignupDraft {
	return models.SignupDraft{
		ID:        id,
		SessionID: sessionID,
		Step:      models.StepAccount,
		Account:   models.AccountDetails{Role: models.RoleBuyer},
		Profile:   models.ProfessionalProfile{Specialties: []string{}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SubmitAccount records the account step. The submitted values are kept on
// the draft even when validation fails; in that case the draft stays on
// the account step and the field errors are returned.
func SubmitAccount(d *models.SignupDraft, in models.AccountDetails, now time.Time) error {
	if d.Step != models.StepAccount {
		return models.ErrWrongStep
	}
	d.Account = in
	d.UpdatedAt = now

	if errs := ValidateAccount(in); len(errs) > 0 {
		d.Errors = errs
		return errs
	}
	d.Errors = nil
	d.Step = Next(models.StepAccount, in.Role)
	return nil
}

// SubmitProfile records the professional profile step.
func SubmitProfile(d *models.SignupDraft, in models.ProfessionalProfile, now time.Time) error {
	if d.Step != models.StepProfile {
		return models.ErrWrongStep
	}
	if in.Specialties == nil {
		in.Specialties = []string{}
	}
	d.Profile = in
	d.UpdatedAt = now

	if errs := ValidateProfile(in); len(errs) > 0 {
		d.Errors = errs
		return errs
	}
	d.Errors = nil
	d.Step = Next(models.StepProfile, d.Account.Role)
	return nil
}

// Back moves one step backwards. It never fails and never drops values.
func Back(d *models.SignupDraft, now time.Time) {
	d.Step = Prev(d.Step, d.Account.Role)
	d.Errors = nil
	d.UpdatedAt = now
}

// Finish ends the flow from the confirmation step.
func Finish(d models.SignupDraft) error {
	if d.Step != models.StepConfirmation {
		return models.ErrWrongStep
	}
	return nil
}

// View hides the passwords and adds progress information.
func View(d models.SignupDraft) models.SignupDraftView {
	step, total := Progress(d)
	account := d.Account
	account.Password = ""
	account.ConfirmPassword = ""
	return models.SignupDraftView{
		ID:          d.ID,
		Step:        d.Step,
		StepNumber:  step,
		TotalSteps:  total,
		Account:     account,
		PasswordSet: d.Account.Password != "",
		Profile:     d.Profile,
		Errors:      d.Errors,
	}
}
