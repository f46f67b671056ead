package signup

import (
	"testing"

	"engmarket/internal/models"
)

func TestValidateAccount(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(a *models.AccountDetails)
		field  string
	}{
		{"short name", func(a *models.AccountDetails) { a.FullName = "A" }, "full_name"},
		{"blank name", func(a *models.AccountDetails) { a.FullName = "   " }, "full_name"},
		{"bad email", func(a *models.AccountDetails) { a.Email = "not-an-email" }, "email"},
		{"email without domain dot", func(a *models.AccountDetails) { a.Email = "ada@localhost" }, "email"},
		{"email with display name", func(a *models.AccountDetails) { a.Email = "Ada <ada@example.com>" }, "email"},
		{"short password", func(a *models.AccountDetails) { a.Password, a.ConfirmPassword = "short", "short" }, "password"},
		{"mismatch", func(a *models.AccountDetails) { a.ConfirmPassword = "analytical2" }, "confirm_password"},
		{"unknown role", func(a *models.AccountDetails) { a.Role = "admin" }, "role"},
		{"terms", func(a *models.AccountDetails) { a.Terms = false }, "terms"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := validAccount(models.RoleBuyer)
			tc.mutate(&a)
			errs := ValidateAccount(a)
			if len(errs) != 1 || errs[0].Field != tc.field {
				t.Fatalf("expected a single %s error, got %#v", tc.field, errs)
			}
		})
	}

	if errs := ValidateAccount(validAccount(models.RoleBoth)); len(errs) != 0 {
		t.Fatalf("expected no errors, got %#v", errs)
	}
}

func TestValidateProfile(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *models.ProfessionalProfile)
		field  string
	}{
		{"title", func(p *models.ProfessionalProfile) { p.Title = "" }, "title"},
		{"experience", func(p *models.ProfessionalProfile) { p.Experience = "" }, "experience"},
		{"unknown experience", func(p *models.ProfessionalProfile) { p.Experience = "guru" }, "experience"},
		{"location", func(p *models.ProfessionalProfile) { p.Location = "X" }, "location"},
		{"no specialties", func(p *models.ProfessionalProfile) { p.Specialties = nil }, "specialties"},
		{"unknown specialty", func(p *models.ProfessionalProfile) { p.Specialties = []string{"Alchemy"} }, "specialties"},
		{"rate missing", func(p *models.ProfessionalProfile) { p.HourlyRate = "" }, "hourly_rate"},
		{"rate not a number", func(p *models.ProfessionalProfile) { p.HourlyRate = "lots" }, "hourly_rate"},
		{"rate negative", func(p *models.ProfessionalProfile) { p.HourlyRate = "-10" }, "hourly_rate"},
		{"short bio", func(p *models.ProfessionalProfile) { p.Bio = "Too short." }, "bio"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutate(&p)
			errs := ValidateProfile(p)
			if len(errs) != 1 || errs[0].Field != tc.field {
				t.Fatalf("expected a single %s error, got %#v", tc.field, errs)
			}
		})
	}

	p := validProfile()
	p.Company = ""
	if errs := ValidateProfile(p); len(errs) != 0 {
		t.Fatalf("company is optional, got %#v", errs)
	}
}
