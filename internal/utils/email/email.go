package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/domus-lending/quote-service/internal/config"
	"github.com/domus-lending/quote-service/internal/models"
	"github.com/jordan-wright/email"
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

// SendQuoteNotification forwards a completed quote to the human reviewer as a
// flat key-value summary. No engine behavior depends on delivery succeeding.
func (s *Sender) SendQuoteNotification(in *models.ScenarioInput, result *models.UnderwritingResult, quoteID int64) error {
	if s.cfg.ReviewerEmail == "" {
		return fmt.Errorf("no reviewer email configured")
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.ReviewerEmail}
	if result.Quote != nil && result.Quote.RequiresManualRateReview {
		e.Subject = fmt.Sprintf("Quote #%d requires manual rate review (%s band)", quoteID, result.Band)
	} else {
		e.Subject = fmt.Sprintf("Quote #%d submitted (%s band)", quoteID, result.Band)
	}

	body := fmt.Sprintf(
		"A soft quote was submitted on %s.\n\n", time.Now().Format("2006-01-02 15:04:05"),
	)
	body += fmt.Sprintf(
		"Borrower: %s <%s> %s\n"+
			"Property: %s %s, %s, %d unit(s)\n"+
			"Purpose: %s (cash-out: %t, STR: %t, foreign national: %t)\n\n",
		in.BorrowerName, in.BorrowerEmail, in.BorrowerPhone,
		in.ZipCode, in.PropertyState, in.AssetType, in.NumberOfUnits,
		in.LoanPurpose, in.IsCashOut, in.IsShortTermRental, in.IsForeignNational,
	)
	body += strings.Join(result.Flatten(), "\n")
	if reasoning := result.Reasoning(); reasoning != "" {
		body += "\n\nFindings: " + reasoning
	}
	body += "\n\nThis is an advisory computation only, not a binding offer.\n"
	e.Text = []byte(body)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send quote notification to %s: %v", s.cfg.ReviewerEmail, err)
		return fmt.Errorf("failed to send quote notification: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.ReviewerEmail, e.Subject)
	return nil
}
