package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"feiraja/internal/config"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return &emailService{
		dialer: dialer,
		from:   cfg.FromEmail,
	}
}

func newWelcomeEmail(from, to, name string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Bem-vindo à Feirajá!")

	body := fmt.Sprintf(`
		<h2>Bem-vindo à Feirajá, %s!</h2>
		<p>Seu cadastro foi realizado com sucesso.</p>
		<p>Agora você pode configurar sua cesta e receber produtos frescos direto do produtor.</p>
		<p>Feirajá - A feira na sua casa</p>
	`, name)
	m.SetBody("text/html", body)
	return m
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	if err := s.dialer.DialAndSend(newWelcomeEmail(s.from, email, name)); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
