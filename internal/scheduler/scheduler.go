package scheduler

import (
	"context"
	"time"

	"github.com/Dan9191/bank-cards/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ExpiryNotifier delivers expiry warnings to card owners.
type ExpiryNotifier interface {
	SendExpiryReminder(to, username, panLast4 string, expiry time.Time) error
}

// expiryWindow is how far ahead owners are warned.
const expiryWindow = 30 * 24 * time.Hour

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	repo     *repository.Repository
	notifier ExpiryNotifier
	log      *logrus.Logger
	cron     *cron.Cron
}

// NewScheduler initializes a new scheduler
func NewScheduler(repo *repository.Repository, notifier ExpiryNotifier, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		repo:     repo,
		notifier: notifier,
		log:      log,
		cron:     cron.New(),
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 9 * * *", s.notifyExpiringCards); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Scheduler started")
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

// notifyExpiringCards emails the owners of active cards whose expiry
// falls inside the warning window. Notification only; no card status
// is changed here.
func (s *Scheduler) notifyExpiringCards() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cards, err := s.repo.ListExpiringCards(ctx, time.Now().Add(expiryWindow))
	if err != nil {
		s.log.Errorf("Failed to list expiring cards: %v", err)
		return
	}

	for _, card := range cards {
		if err := s.notifier.SendExpiryReminder(card.OwnerEmail, card.OwnerName, card.PanLast4, card.Expiry); err != nil {
			s.log.Errorf("Failed to send expiry reminder for card %d: %v", card.CardID, err)
		}
	}
	s.log.Infof("Expiry sweep done, %d cards notified", len(cards))
}
