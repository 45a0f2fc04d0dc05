package booking

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"eventId"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

var ErrNotFound = errors.New("booking not found")

type CreateBookingRequest struct {
	// taken from the URL, never from the body
	EventID string `json:"-"`
	Email   string `json:"email" binding:"required,email"`
}

// local part, @, domain, dot, tld; nothing fancier than the stored shape needs
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// NormalizeEmail produces the form that gets stored and compared.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidEmail re-checks the normalized address right before the write.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// A factory to build a Booking from the incoming DTO. The event reference is
// resolved by the save pipeline once it has checked the event exists.
func NewFromCreateRequest(req CreateBookingRequest) Booking {
	now := time.Now().UTC()

	return Booking{
		Email:     NormalizeEmail(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
