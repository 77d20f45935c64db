package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "user.name@example.org"}
	invalid := []string{"", "plainstring", "a@b", "a.b"}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsComplexPassword(t *testing.T) {
	if !IsComplexPassword("Str0ng!pass") {
		t.Error("expected complex password to be accepted")
	}
	weak := []string{"short1!", "alllowercase1!", "ALLUPPERCASE1!", "NoNumbers!", "NoSpecials1"}
	for _, password := range weak {
		if IsComplexPassword(password) {
			t.Errorf("IsComplexPassword(%q) = true, want false", password)
		}
	}
}

func TestIsValidReminderTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	invalid := []string{"", "24:00", "12:60", "9:30", "12-30", "ab:cd"}
	for _, value := range valid {
		if !IsValidReminderTime(value) {
			t.Errorf("IsValidReminderTime(%q) = false, want true", value)
		}
	}
	for _, value := range invalid {
		if IsValidReminderTime(value) {
			t.Errorf("IsValidReminderTime(%q) = true, want false", value)
		}
	}
}
