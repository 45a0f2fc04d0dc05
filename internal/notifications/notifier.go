package notifications

import "context"

type SendBookingConfirmationInput struct {
	Email      string
	EventID    string
	EventTitle string
	EventDate  string
	EventTime  string
	BookingID  string
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, input SendBookingConfirmationInput) error
}

// Off swallows everything; wired when confirmations are disabled so the
// handlers never have to nil-check.
type Off struct{}

func (Off) SendBookingConfirmation(ctx context.Context, input SendBookingConfirmationInput) error {
	return nil
}
