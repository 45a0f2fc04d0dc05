package event

import (
	"time"
)

// NewFromCreateRequest builds the draft Event for the save pipeline.
// The slug stays empty here, it is derived right before the write, and the
// ID is assigned by the database on insert.
func NewFromCreateRequest(req CreateEventRequest) Event {
	now := time.Now().UTC()

	return Event{
		Title:       req.Title,
		Description: req.Description,
		Overview:    req.Overview,
		Image:       req.Image,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        req.Mode,
		Audience:    req.Audience,
		Agenda:      req.Agenda,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyUpdateRequest lays a full update payload over the stored document.
// ID, slug and createdAt are carried over untouched; whether the slug needs
// re-deriving is the save pipeline's call, not ours.
func ApplyUpdateRequest(current Event, req UpdateEventRequest) Event {
	e := current

	e.Title = req.Title
	e.Description = req.Description
	e.Overview = req.Overview
	e.Image = req.Image
	e.Venue = req.Venue
	e.Location = req.Location
	e.Date = req.Date
	e.Time = req.Time
	e.Mode = req.Mode
	e.Audience = req.Audience
	e.Agenda = req.Agenda
	e.Organizer = req.Organizer
	e.Tags = req.Tags
	e.UpdatedAt = time.Now().UTC()

	return e
}
