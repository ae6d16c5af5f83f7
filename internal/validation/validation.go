package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mcnijman/go-emailaddress"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	MaxPasswordLength = 72
	MaxTitleLength    = 255
	MaxEmailLength    = 254
)

// Error describes a rejected input field. It is safe to show to clients.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newError(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

func ValidateEmail(email string) error {
	if email == "" {
		return newError("email", "is required")
	}
	if len(email) > MaxEmailLength {
		return newError("email", "must be at most %d characters", MaxEmailLength)
	}
	if !utf8.ValidString(email) {
		return newError("email", "must be valid UTF-8")
	}
	if strings.TrimSpace(email) != email {
		return newError("email", "must not contain surrounding whitespace")
	}
	if _, err := emailaddress.Parse(email); err != nil {
		return newError("email", "is not a valid address")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return newError("password", "is required")
	}
	if len(password) < MinPasswordLength {
		return newError("password", "must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return newError("password", "must be at most %d bytes", MaxPasswordLength)
	}
	return nil
}

// NormalizeTitle trims the title and checks it is non-empty and bounded.
func NormalizeTitle(title string) (string, error) {
	if !utf8.ValidString(title) {
		return "", newError("title", "must be valid UTF-8")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", newError("title", "is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", newError("title", "must be at most %d characters", MaxTitleLength)
	}
	return title, nil
}

func ValidatePage(offset, limit, maxLimit int) error {
	if offset < 0 {
		return newError("offset", "must not be negative")
	}
	if limit < 0 {
		return newError("limit", "must not be negative")
	}
	if limit > maxLimit {
		return newError("limit", "must be at most %d", maxLimit)
	}
	return nil
}
