// Package email sends transactional mail to patients and doctors.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/guhospital/hms-api/pkg/logger"
)

// Service sends hospital notifications
type Service interface {
	SendAppointmentConfirmation(to, patientName, doctorName, date, timeOfDay string) error
	SendInvoiceNotice(to, patientName string, totalMinorUnits int64) error
}

// Config holds SMTP settings
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Enabled  bool   `mapstructure:"enabled"`
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

// NewService returns an SMTP-backed sender, or a no-op sender when mail is
// disabled in the config.
func NewService(cfg Config, log *logger.Logger) Service {
	if !cfg.Enabled {
		return &noopService{logger: log}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendAppointmentConfirmation(to, patientName, doctorName, date, timeOfDay string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment with %s is confirmed for %s at %s.\n\nGU Hospital",
		patientName, doctorName, date, timeOfDay,
	)
	return s.send(to, "Appointment confirmed", body)
}

func (s *smtpService) SendInvoiceNotice(to, patientName string, totalMinorUnits int64) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nA new invoice of Rs. %d.%02d has been issued to your account.\n\nGU Hospital",
		patientName, totalMinorUnits/100, totalMinorUnits%100,
	)
	return s.send(to, "New invoice", body)
}

// noopService logs instead of sending, for local development
type noopService struct {
	logger *logger.Logger
}

func (s *noopService) SendAppointmentConfirmation(to, patientName, doctorName, date, timeOfDay string) error {
	s.logger.Info("email disabled, skipping appointment confirmation", "to", to, "date", date)
	return nil
}

func (s *noopService) SendInvoiceNotice(to, patientName string, totalMinorUnits int64) error {
	s.logger.Info("email disabled, skipping invoice notice", "to", to)
	return nil
}
