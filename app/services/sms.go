package services

import "log"

// SMSSender is the outbound SMS collaborator. Real delivery lives with an
// external provider; the application only depends on this interface.
type SMSSender interface {
	Send(to, body string) error
}

// LogSender is the bundled no-op sender used when no provider is wired.
type LogSender struct{}

func (LogSender) Send(to, body string) error {
	log.Printf("SMS to %s: %s", to, body)
	return nil
}
