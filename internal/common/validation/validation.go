package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLength  = 32
	MinUsernameLength  = 5
	MaxNameLength      = 64
	MaxLanguageCodeLen = 35
)

var (
	telegramUsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{5,32}$`)

	validStatuses = []string{"active", "banned"}
	validRoles    = []string{"user", "driver", "admin"}
)

// ValidateUsername checks a Telegram username, with or without a leading @.
func ValidateUsername(username string) error {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if !telegramUsernameRegex.MatchString(username) {
		return fmt.Errorf("username must contain only letters, numbers, and underscores, %d-%d characters",
			MinUsernameLength, MaxUsernameLength)
	}
	return nil
}

// ValidateName checks a first or last name length in characters.
func ValidateName(field, name string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%s cannot exceed %d characters", field, MaxNameLength)
	}
	return nil
}

func ValidateLanguageCode(code string) error {
	if len(code) > MaxLanguageCodeLen {
		return fmt.Errorf("language code cannot exceed %d characters", MaxLanguageCodeLen)
	}
	return nil
}

func ValidateUserStatus(status string) error {
	return oneOf("status", strings.TrimSpace(status), validStatuses)
}

func ValidateUserRole(role string) error {
	return oneOf("role", strings.TrimSpace(role), validRoles)
}

// ValidatePositiveInt проверяет, что число положительное
func ValidatePositiveInt(value int64, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}

func oneOf(field, value string, allowed []string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	for _, v := range allowed {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s. Valid values: %v", field, value, allowed)
}
