package models

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation error")

// ValidationError reports the first invalid field of a form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

const passwordRules = "password must be 10 to 15 characters and include an uppercase letter, a digit and a symbol"

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func checkEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "invalid email")
	}
	return nil
}

func minLen(field, value string, n int, msg string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		return invalid(field, msg)
	}
	return nil
}

// CheckPasswordStrength applies the sign-up password policy.
func CheckPasswordStrength(field, password string) error {
	n := utf8.RuneCountInString(password)
	if n < 10 || n > 15 {
		return invalid(field, passwordRules)
	}
	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r < 'a' || r > 'z':
			symbol = true
		}
	}
	if !upper || !digit || !symbol {
		return invalid(field, passwordRules)
	}
	return nil
}

func (r SignInRequest) Validate() error {
	if err := checkEmail(r.Email); err != nil {
		return err
	}
	return minLen("password", r.Password, 6, "password must have at least 6 characters")
}

func (r SignUpRequest) Validate() error {
	if err := minLen("name", r.Name, 3, "name must have at least 3 characters"); err != nil {
		return err
	}
	if err := checkEmail(r.Email); err != nil {
		return err
	}
	return CheckPasswordStrength("password", r.Password)
}

func (r ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return invalid("currentPassword", "current password is required")
	}
	if err := CheckPasswordStrength("newPassword", r.NewPassword); err != nil {
		return err
	}
	if r.CurrentPassword == r.NewPassword {
		return invalid("newPassword", "new password must differ from the current one")
	}
	return nil
}

func (r CreateRoomRequest) Validate() error {
	if err := minLen("name", r.Name, 3, "room name must have at least 3 characters"); err != nil {
		return err
	}
	return minLen("description", r.Description, 6, "describe the room briefly")
}
