// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/oops"
)

// Password and name limits, counted in characters.
const (
	PasswordMinLength = 3
	PasswordMaxLength = 100
	NameMinLength     = 3
	NameMaxLength     = 50
)

// PasswordSpecialChars lists the characters that satisfy the special
// character requirement.
const PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// Local part may not start with a dot or contain "..", checked separately.
var emailPattern = regexp.MustCompile(`(?i)^[a-z0-9_'+\-.]*[a-z0-9_+\-]@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateEmail returns an empty string when email is acceptable, otherwise
// the reason it is not.
func ValidateEmail(email string) string {
	if email == "" {
		return "email is required"
	}
	if !emailPattern.MatchString(email) || strings.HasPrefix(email, ".") || strings.Contains(email, "..") {
		return "invalid email address"
	}
	return ""
}

// ValidatePassword applies the password strength rules. Only ASCII letters
// satisfy the uppercase and lowercase requirements.
func ValidatePassword(password string) string {
	n := utf8.RuneCountInString(password)
	switch {
	case n < PasswordMinLength:
		return "password must be at least 3 characters"
	case n > PasswordMaxLength:
		return "password must be at most 100 characters"
	}

	var upper, lower, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		}
		if strings.ContainsRune(PasswordSpecialChars, r) {
			special = true
		}
	}
	switch {
	case !upper:
		return "password must contain an uppercase letter"
	case !lower:
		return "password must contain a lowercase letter"
	case !special:
		return "password must contain a special character"
	}
	return ""
}

// ValidateName checks a first or last name.
func ValidateName(name string) string {
	n := utf8.RuneCountInString(name)
	switch {
	case n < NameMinLength:
		return "must be at least 3 characters"
	case n > NameMaxLength:
		return "must be at most 50 characters"
	}
	return ""
}

// SigninInput is the credential pair presented at signin.
type SigninInput struct {
	Email    string
	Password string
}

// SignupInput is the registration payload for either principal kind.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Validate returns every offending field.
func (in SigninInput) Validate() []FieldError {
	var errs []FieldError
	if msg := ValidateEmail(in.Email); msg != "" {
		errs = append(errs, FieldError{Field: "email", Message: msg})
	}
	if msg := ValidatePassword(in.Password); msg != "" {
		errs = append(errs, FieldError{Field: "password", Message: msg})
	}
	return errs
}

// Validate returns every offending field.
func (in SignupInput) Validate() []FieldError {
	errs := SigninInput{Email: in.Email, Password: in.Password}.Validate()
	if msg := ValidateName(in.FirstName); msg != "" {
		errs = append(errs, FieldError{Field: "firstName", Message: "first name " + msg})
	}
	if msg := ValidateName(in.LastName); msg != "" {
		errs = append(errs, FieldError{Field: "lastName", Message: "last name " + msg})
	}
	return errs
}

// ValidationError builds a VALIDATION_FAILED error carrying fields.
func ValidationError(fields []FieldError) error {
	return oops.Code(CodeValidationFailed).
		With("fields", fields).
		Errorf("invalid input")
}

// FieldsFromError extracts the field list attached by ValidationError.
func FieldsFromError(err error) []FieldError {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	fields, _ := oopsErr.Context()["fields"].([]FieldError)
	return fields
}
