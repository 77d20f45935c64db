package services

import (
	"fmt"

	"go.uber.org/zap"

	"ocucheck/internal/models"
)

// EmailService is a placeholder for a real email sending service.
type EmailService struct {
	log *zap.Logger
}

func NewEmailService(log *zap.Logger) *EmailService {
	return &EmailService{log: log}
}

// SendReminderEmail simulates sending a reminder email.
func (s *EmailService) SendReminderEmail(user models.User) {
	s.log.Info("Sending reminder email",
		zap.String("to", user.Email),
		zap.String("name", user.FirstName),
	)
	// In a real deployment this would go through an SMTP client with a
	// templated HTML body.
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Reminder to check your vision\nHi %s,\nThis is a friendly reminder to complete your OcuCheck vision screening.\n\n", user.Email, user.FirstName)
}
