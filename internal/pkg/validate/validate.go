package validate

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// PasswordError reports why a password was rejected. The reason is a stable
// diagnostic word surfaced to the client.
type PasswordError struct {
	Reason string
}

func (e *PasswordError) Error() string {
	return "Invalid User Password: " + e.Reason
}

// Password checks a candidate password against the account password policy:
// 6..50 characters with at least one digit, one uppercase, one lowercase and
// one special character.
func Password(pw string) error {
	if len(pw) < 6 {
		return &PasswordError{Reason: "PasswordShorterThan6Characters"}
	}
	if len(pw) > 50 {
		return &PasswordError{Reason: "PasswordLongerThan50Characters"}
	}

	var digit, upper, lower, special bool
	for _, r := range pw {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		default:
			special = true
		}
	}
	switch {
	case !digit:
		return &PasswordError{Reason: "MissingNumericCharacter"}
	case !upper:
		return &PasswordError{Reason: "MissingUppercaseCharacter"}
	case !lower:
		return &PasswordError{Reason: "MissingLowercaseCharacter"}
	case !special:
		return &PasswordError{Reason: "MissingSpecialCharacter"}
	}
	return nil
}

// RequiredFields returns the names of fields whose value is blank, in the
// order given.
func RequiredFields(fields map[string]string, required []string) []string {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// UserID reports whether the given id is a well-formed user id.
func UserID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
