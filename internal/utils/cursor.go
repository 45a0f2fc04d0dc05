package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// EventCursor marks a position in the (date, id) listing order. Date is the
// canonical YYYY-MM-DD string, ID the hex object id of the last item seen.
type EventCursor struct {
	Date string `json:"date"`
	ID   string `json:"id"`
}

type BookingCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

func EncodeEventCursor(date, id string) (string, error) {
	b, err := json.Marshal(EventCursor{Date: date, ID: id})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeEventCursor(cursor string) (EventCursor, error) {
	if cursor == "" {
		return EventCursor{}, errors.New("empty cursor")
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return EventCursor{}, err
	}

	var c EventCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return EventCursor{}, err
	}
	if c.ID == "" || c.Date == "" {
		return EventCursor{}, errors.New("invalid cursor payload")
	}
	return c, nil
}

func EncodeBookingCursor(createdAt time.Time, id string) (string, error) {
	b, err := json.Marshal(BookingCursor{CreatedAt: createdAt, ID: id})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeBookingCursor(cursor string) (BookingCursor, error) {
	if cursor == "" {
		return BookingCursor{}, errors.New("empty cursor")
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return BookingCursor{}, err
	}
	var c BookingCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return BookingCursor{}, err
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		return BookingCursor{}, errors.New("invalid cursor payload")
	}
	return c, nil
}
