package email

// Provider sends outbound email
type Provider interface {
	// Send delivers a message
	Send(email *Email) error

	// Validate checks the provider configuration
	Validate() error
}
