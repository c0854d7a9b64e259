package services

import (
	"crypto/tls"
	"fmt"
	"html"

	"github.com/princeprakhar/restaurant-directory/internal/config"
	"github.com/princeprakhar/restaurant-directory/internal/models"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(config *config.Config) *EmailService {
	return &EmailService{config: config}
}

// Enabled reports whether an SMTP host is configured. Safe on a nil
// service.
func (s *EmailService) Enabled() bool {
	return s != nil && s.config != nil && s.config.SMTPHost != ""
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	d.TLSConfig = &tls.Config{ServerName: s.config.SMTPHost}

	return d.DialAndSend(m)
}

func (s *EmailService) SendWelcomeEmail(user models.User) error {
	subject := "Welcome to the restaurant directory"
	body := welcomeBody(user.DisplayName(), s.config.BaseURL)
	return s.SendEmail(user.Email, subject, body)
}

func welcomeBody(name, baseURL string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2>Welcome, %s!</h2>
    <p>Your account is ready. Browse restaurants, bookmark the ones you want to try
    and mark the ones you have visited.</p>
    <p><a href="%s/restaurants">Start exploring</a></p>
    <p style="font-size: 12px; color: #666;">This is an automated message, please do not reply to this email.</p>
</body>
</html>`, html.EscapeString(name), baseURL)
}
