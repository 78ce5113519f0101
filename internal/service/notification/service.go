package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/pkg/logger"
)

type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Service sends appointment emails. Delivery is best-effort: failures are
// logged and never propagate to the booking flow. With no SMTP host
// configured the service is a no-op.
type Service struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewService(cfg Config, logger *logger.Logger) *Service {
	s := &Service{from: cfg.From, logger: logger}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

func (s *Service) NotifyBooked(ctx context.Context, apt *model.Appointment) {
	subject := "Appointment confirmed"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s on %s at %s is confirmed.\nConsultation fee: %d.\n",
		apt.Patient.Name, apt.Doctor.Name, apt.SlotDate, apt.SlotTime, apt.Amount,
	)
	s.send(apt.Patient.Email, subject, body)
}

func (s *Service) NotifyCancelled(ctx context.Context, apt *model.Appointment) {
	subject := "Appointment cancelled"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s on %s at %s has been cancelled.\n",
		apt.Patient.Name, apt.Doctor.Name, apt.SlotDate, apt.SlotTime,
	)
	s.send(apt.Patient.Email, subject, body)
}

func (s *Service) send(to, subject, body string) {
	if s.dialer == nil || to == "" {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error(err, "failed to send notification email", "to", to, "subject", subject)
	}
}
