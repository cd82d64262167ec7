package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// GomailProvider sends mail through gopkg.in/gomail.v2. It handles
// STARTTLS negotiation itself, so it is the better fit for providers
// that require it.
type GomailProvider struct {
	config *SMTPConfig
}

func NewGomailProvider(config *SMTPConfig) *GomailProvider {
	return &GomailProvider{config: config}
}

func (p *GomailProvider) Send(msg *Email) error {
	from := msg.From
	if from == "" {
		from = fmt.Sprintf("%s <%s>", p.config.FromName, p.config.FromEmail)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(p.config.Host, p.config.Port, p.config.Username, p.config.Password)
	return d.DialAndSend(m)
}

func (p *GomailProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.Port == 0 {
		return fmt.Errorf("SMTP port is required")
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}
