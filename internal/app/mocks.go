package app

import "udaan_backend/internal/email"

// MockEmailProvider is used when SMTP is not configured; notifications
// stay in the database only.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Email) error { return nil }
func (m *MockEmailProvider) Validate() error             { return nil }
