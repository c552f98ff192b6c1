package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/clearspend/finance-service/internal/repository"
	"github.com/clearspend/finance-service/internal/utils/email"
)

// Scheduler runs the daily bill-reminder job
type Scheduler struct {
	repo   *repository.Repository
	sender *email.Sender
	log    *logrus.Logger
	cron   *cron.Cron
}

// NewScheduler initializes the reminder scheduler
func NewScheduler(repo *repository.Repository, sender *email.Sender, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		repo:   repo,
		sender: sender,
		log:    log,
		cron:   cron.New(),
	}
}

// Start registers the daily reminder job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 9 * * *", s.sendBillReminders); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Reminder scheduler started")
	return nil
}

// Stop stops the cron loop
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// sendBillReminders mails every user whose fixed expenses fall due tomorrow
func (s *Scheduler) sendBillReminders() {
	tomorrow := time.Now().AddDate(0, 0, 1)

	reminders, err := s.repo.ListBillsDueOn(tomorrow.Day())
	if err != nil {
		s.log.Errorf("Failed to load due bills: %v", err)
		return
	}

	for _, r := range reminders {
		if err := s.sender.SendBillReminder(r.Email, r.Expense, tomorrow); err != nil {
			s.log.Errorf("Failed to remind %s about %s: %v", r.Email, r.Expense.Name, err)
		}
	}

	s.log.Infof("Sent %d bill reminders for %s", len(reminders), tomorrow.Format("2006-01-02"))
}
