package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/transfraud/internal/config"
	"github.com/Dan9191/transfraud/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    config.SMTPConfig
	logger *logrus.Logger
	now    func() time.Time
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg config.SMTPConfig, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendSelfHealAlert tells the operator the dataset was reseeded after the
// active card pool ran empty
func (s *Sender) SendSelfHealAlert(reason string, stats models.Stats) error {
	e := s.selfHealEmail(reason, stats)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send self-heal alert to %s: %v", s.cfg.AlertEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.AlertEmail, e.Subject)
	return nil
}

func (s *Sender) selfHealEmail(reason string, stats models.Stats) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AlertEmail}
	e.Subject = "Transaction Generator Data Reinitialized"

	// Format email body
	body := "The transaction generator reinitialized its dataset.\n\n"
	body += fmt.Sprintf(
		"Reason: %s\n"+
			"Time: %s\n"+
			"Customers: %d\n"+
			"Active cards: %d\n"+
			"Transactions: %d\n",
		reason, s.now().UTC().Format("2006-01-02 15:04:05"), stats.TotalCustomers, stats.ActiveCards, stats.TotalTransactions,
	)
	body += "\nTransfraud Generator"
	e.Text = []byte(body)

	return e
}
