package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/bank-cards/internal/config"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendBlockRequestAlert notifies the configured admin address that a
// user has requested a card block and is waiting for confirmation.
func (s *Sender) SendBlockRequestAlert(ownerUsername string, cardID int64, panLast4 string) error {
	if s.cfg.AdminEmail == "" {
		s.logger.Debug("No admin email configured, skipping block request alert")
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AdminEmail}
	e.Subject = "Card Block Request"

	body := fmt.Sprintf(
		"User %s has requested a block for card %d (**** %s).\n"+
			"The card is now in PENDING_BLOCK and awaits administrative confirmation.\n",
		ownerUsername, cardID, panLast4,
	)
	body += "\nBest regards,\nBank Cards Service"
	e.Text = []byte(body)

	return s.send(e)
}

// SendTransferReceipt sends the card owner a receipt for a completed
// transfer between their cards.
func (s *Sender) SendTransferReceipt(to, username, fromLast4, toLast4 string, amount decimal.Decimal, currency string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Transfer Completed"

	body := fmt.Sprintf(
		"Dear %s,\n\n", username,
	)
	body += fmt.Sprintf(
		"Your transfer of %s %s from card **** %s to card **** %s has been completed.\n"+
			"Transaction time: %s\n",
		amount.StringFixed(2), currency, fromLast4, toLast4,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	body += "\nBest regards,\nBank Cards Service"
	e.Text = []byte(body)

	return s.send(e)
}

// SendExpiryReminder warns the card owner that their card is about to
// expire.
func (s *Sender) SendExpiryReminder(to, username, panLast4 string, expiry time.Time) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Card Expiry Reminder"

	body := fmt.Sprintf(
		"Dear %s,\n\n", username,
	)
	body += fmt.Sprintf(
		"Your card **** %s expires on %s.\n"+
			"Please contact the bank to arrange a replacement.\n",
		panLast4, expiry.Format("2006-01-02"),
	)
	body += "\nBest regards,\nBank Cards Service"
	e.Text = []byte(body)

	return s.send(e)
}

func (s *Sender) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %v: %v", e.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %v: %s", e.To, e.Subject)
	return nil
}
