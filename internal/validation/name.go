package validation

import (
	"errors"
	"strings"
)

// ValidateName validates the profile display name set during onboarding.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 60 {
		return errors.New("name is too long (max 60 characters)")
	}

	return nil
}
