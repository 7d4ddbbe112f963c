package domain

import (
	"regexp"
	"strings"

	apperrors "goalplan/internal/platform/errors"
)

// Storage slots of the key-value store.
const (
	TokenSlot   = "authToken"
	ProfileSlot = "authUser"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is what an auth endpoint hands back. Token may be empty when the
// backend accepted the call without issuing one.
type Session struct {
	Token   string
	Profile Profile
}

type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return apperrors.Validation("credentials", "Please fill in all fields")
	}
	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		return apperrors.Validation("email", "Invalid email")
	}
	return nil
}

type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

func (r Registration) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.Validation("name", "Please fill in all fields")
	}
	if err := (Credentials{Email: r.Email, Password: r.Password}).Validate(); err != nil {
		return err
	}
	if r.Password != r.ConfirmPassword {
		return apperrors.Validation("confirm_password", "Passwords do not match")
	}
	return nil
}
