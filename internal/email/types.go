package email

// Email is an outbound message
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// SMTPConfig holds SMTP connection settings
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}
