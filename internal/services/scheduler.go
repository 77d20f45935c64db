package services

import (
	"time"

	"go.uber.org/zap"

	"ocucheck/internal/config"
	"ocucheck/internal/models"
	"ocucheck/internal/repository"
	"ocucheck/internal/staircase"
)

type Scheduler struct {
	log          *zap.Logger
	emailService *EmailService
	manager      *staircase.Manager
}

func NewScheduler(log *zap.Logger, emailService *EmailService, manager *staircase.Manager) *Scheduler {
	return &Scheduler{
		log:          log,
		emailService: emailService,
		manager:      manager,
	}
}

// Start runs the scheduler in a goroutine.
func (s *Scheduler) Start() {
	s.log.Info("Starting screening scheduler...")
	go func() {
		// Ticker will fire on every minute.
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			<-ticker.C
			s.runReminderCheck()
			s.sweepAbandonedSessions()
		}
	}()
}

func (s *Scheduler) runReminderCheck() {
	// Get current time in UTC, formatted as HH:MM
	currentTime := time.Now().UTC().Format("15:04")
	s.log.Debug("Running reminder check", zap.String("utc_time", currentTime))

	users, err := repository.GetUsersForReminder(currentTime)
	if err != nil {
		s.log.Error("Failed to get users for email reminder", zap.Error(err))
		return
	}

	for _, user := range users {
		completed, err := repository.HasCompletedScreeningToday(user.ID)
		if err != nil {
			s.log.Error("Failed to check screening completion status", zap.Uint("userID", user.ID), zap.Error(err))
			continue
		}

		if !completed {
			go s.sendReminder(user)
		}
	}
}

// sweepAbandonedSessions drops test sessions the user walked away from.
// Swept sessions are never finalized and never reported.
func (s *Scheduler) sweepAbandonedSessions() {
	ttl := 30 * time.Minute
	if config.Conf != nil && config.Conf.Screening.SessionTTLMinutes > 0 {
		ttl = time.Duration(config.Conf.Screening.SessionTTLMinutes) * time.Minute
	}
	if removed := s.manager.Sweep(ttl); removed > 0 {
		s.log.Info("Swept abandoned screening sessions", zap.Int("count", removed))
	}
}

func (s *Scheduler) sendReminder(user models.User) {
	s.emailService.SendReminderEmail(user)
}
