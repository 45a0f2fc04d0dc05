package event

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Overview    string             `bson:"overview" json:"overview"`
	Image       string             `bson:"image" json:"image"`
	Venue       string             `bson:"venue" json:"venue"`
	Location    string             `bson:"location" json:"location"`
	Date        string             `bson:"date" json:"date"` // canonical YYYY-MM-DD
	Time        string             `bson:"time" json:"time"` // canonical 24h HH:MM
	Mode        string             `bson:"mode" json:"mode"`
	Audience    string             `bson:"audience" json:"audience"`
	Agenda      []string           `bson:"agenda" json:"agenda"`
	Organizer   string             `bson:"organizer" json:"organizer"`
	Tags        []string           `bson:"tags" json:"tags"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// with pointers if optional, it will be nil
type ListEventsFilter struct {
	Tag   *string
	Mode  *string
	Query *string
	Limit int
}

var ErrNotFound = errors.New("event not found")

type CreateEventRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=140"`
	Description string   `json:"description" binding:"required,max=5000"`
	Overview    string   `json:"overview" binding:"required,max=500"`
	Image       string   `json:"image" binding:"required"`
	Venue       string   `json:"venue" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Time        string   `json:"time" binding:"required"`
	Mode        string   `json:"mode" binding:"required,oneof=online offline hybrid"`
	Audience    string   `json:"audience" binding:"required"`
	Agenda      []string `json:"agenda" binding:"required,min=1,dive,required"`
	Organizer   string   `json:"organizer" binding:"required"`
	Tags        []string `json:"tags" binding:"required,min=1,dive,required"`
}

// a full update payload, might switch to a patch which optionally provides means for partial updates.
type UpdateEventRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=140"`
	Description string   `json:"description" binding:"required,max=5000"`
	Overview    string   `json:"overview" binding:"required,max=500"`
	Image       string   `json:"image" binding:"required"`
	Venue       string   `json:"venue" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Time        string   `json:"time" binding:"required"`
	Mode        string   `json:"mode" binding:"required,oneof=online offline hybrid"`
	Audience    string   `json:"audience" binding:"required"`
	Agenda      []string `json:"agenda" binding:"required,min=1,dive,required"`
	Organizer   string   `json:"organizer" binding:"required"`
	Tags        []string `json:"tags" binding:"required,min=1,dive,required"`
}
