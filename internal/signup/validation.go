package signup

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"engmarket/internal/models"
)

var Specialties = []string{
	"Structural Engineering", "Mechanical Engineering", "Electrical Engineering",
	"Civil Engineering", "Chemical Engineering", "Aerospace Engineering",
	"Software Engineering", "Environmental Engineering", "Biomedical Engineering",
	"Industrial Engineering", "Materials Engineering", "Petroleum Engineering",
}

const (
	minNameLength     = 2
	minPasswordLength = 8
	minTitleLength    = 2
	minLocationLength = 2
	minBioLength      = 50
)

func ValidateAccount(in models.AccountDetails) models.FieldErrors {
	var errs models.FieldErrors

	if runeLen(in.FullName) < minNameLength {
		errs = append(errs, models.FieldError{Field: "full_name", Message: "Full name must be at least 2 characters"})
	}
	if !validEmail(in.Email) {
		errs = append(errs, models.FieldError{Field: "email", Message: "Please enter a valid email address"})
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		errs = append(errs, models.FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	}
	if in.ConfirmPassword != in.Password {
		errs = append(errs, models.FieldError{Field: "confirm_password", Message: "Passwords don't match"})
	}
	if !in.Role.Valid() {
		errs = append(errs, models.FieldError{Field: "role", Message: "Please choose how you want to use the marketplace"})
	}
	if !in.Terms {
		errs = append(errs, models.FieldError{Field: "terms", Message: "You must agree to the terms"})
	}
	return errs
}

func ValidateProfile(in models.ProfessionalProfile) models.FieldErrors {
	var errs models.FieldErrors

	if runeLen(in.Title) < minTitleLength {
		errs = append(errs, models.FieldError{Field: "title", Message: "Professional title is required"})
	}
	if !contains(models.ExperienceLevels, in.Experience) {
		errs = append(errs, models.FieldError{Field: "experience", Message: "Experience level is required"})
	}
	if runeLen(in.Location) < minLocationLength {
		errs = append(errs, models.FieldError{Field: "location", Message: "Location is required"})
	}
	if len(in.Specialties) == 0 {
		errs = append(errs, models.FieldError{Field: "specialties", Message: "Select at least one specialty"})
	} else {
		for _, s := range in.Specialties {
			if !contains(Specialties, s) {
				errs = append(errs, models.FieldError{Field: "specialties", Message: "Unknown specialty: " + s})
				break
			}
		}
	}
	if rate, err := strconv.ParseFloat(strings.TrimSpace(in.HourlyRate), 64); err != nil || rate <= 0 {
		errs = append(errs, models.FieldError{Field: "hourly_rate", Message: "Hourly rate is required"})
	}
	if runeLen(in.Bio) < minBioLength {
		errs = append(errs, models.FieldError{Field: "bio", Message: "Bio must be at least 50 characters"})
	}
	return errs
}

func validEmail(value string) bool {
	value = strings.TrimSpace(value)
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	domain := value[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
