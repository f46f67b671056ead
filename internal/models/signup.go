package models

import (
	"strings"
	"time"
)

type SignupRole string

const (
	RoleBuyer  SignupRole = "buyer"
	RoleSeller SignupRole = "seller"
	RoleBoth   SignupRole = "both"
)

// OffersServices reports whether the role includes the provider side and
// therefore needs a professional profile.
func (r SignupRole) OffersServices() bool {
	return r == RoleSeller || r == RoleBoth
}

func (r SignupRole) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleBoth:
		return true
	}
	return false
}

type SignupStep string

const (
	StepAccount      SignupStep = "account-details"
	StepProfile      SignupStep = "professional-profile"
	StepConfirmation SignupStep = "confirmation"
)

type AccountDetails struct {
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"confirm_password"`
	Role            SignupRole `json:"role"`
	Terms           bool       `json:"terms"`
}

type ProfessionalProfile struct {
	Company     string   `json:"company,omitempty"`
	Title       string   `json:"title"`
	Experience  string   `json:"experience"`
	Location    string   `json:"location"`
	Specialties []string `json:"specialties"`
	HourlyRate  string   `json:"hourly_rate"`
	Bio         string   `json:"bio"`
}

type SignupDraft struct {
	ID        string              `json:"id"`
	SessionID string              `json:"session_id"`
	Step      SignupStep          `json:"step"`
	Account   AccountDetails      `json:"account"`
	Profile   ProfessionalProfile `json:"profile"`
	Errors    FieldErrors         `json:"errors,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// SignupDraftView is what the client sees: passwords are never echoed back.
type SignupDraftView struct {
	ID          string              `json:"id"`
	Step        SignupStep          `json:"step"`
	StepNumber  int                 `json:"step_number"`
	TotalSteps  int                 `json:"total_steps"`
	Account     AccountDetails      `json:"account"`
	PasswordSet bool                `json:"password_set"`
	Profile     ProfessionalProfile `json:"profile"`
	Errors      FieldErrors         `json:"errors,omitempty"`
}

type Registration struct {
	ID           string               `json:"id"`
	FullName     string               `json:"full_name"`
	Email        string               `json:"email"`
	Role         SignupRole           `json:"role"`
	PasswordHash []byte               `json:"-"`
	Profile      *ProfessionalProfile `json:"profile,omitempty"`
	CompletedAt  time.Time            `json:"completed_at"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the field-constraint-violation error kind produced by
// sign-up validation.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field has at least one error.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}
