package utils

import (
	"strings"
	"unicode"
)

// IsValidEmail checks if the email string looks like an address.
func IsValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// IsComplexPassword checks if the password meets the complexity requirements.
func IsComplexPassword(password string) bool {
	var (
		hasMinLen  = len(password) >= 8
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasMinLen && hasUpper && hasLower && hasNumber && hasSpecial
}

// IsValidReminderTime checks an "HH:MM" 24-hour clock string.
func IsValidReminderTime(value string) bool {
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	hh := value[:2]
	mm := value[3:]
	for _, part := range []string{hh, mm} {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return false
			}
		}
	}
	return hh <= "23" && mm <= "59"
}
