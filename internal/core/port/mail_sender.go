package port

import "context"

// Mail is a fully rendered message for a single recipient.
type Mail struct {
	To      string
	Subject string
	HTML    string
}

// MailSender delivers a single message through the outbound relay. It
// blocks for the duration of the network round trip.
type MailSender interface {
	Send(ctx context.Context, m Mail) error
}
