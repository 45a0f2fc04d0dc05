package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleCreateRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:       "Go Meetup",
		Description: "An evening of talks.",
		Overview:    "Talks and pizza.",
		Image:       "https://cdn.example.com/go-meetup.png",
		Venue:       "Community Hall",
		Location:    "Berlin, Germany",
		Date:        "2024-05-20",
		Time:        "18:30",
		Mode:        "offline",
		Audience:    "Go developers",
		Agenda:      []string{"Welcome", "Talks", "Networking"},
		Organizer:   "Go Berlin",
		Tags:        []string{"go", "meetup"},
	}
}

func TestNewFromCreateRequest(t *testing.T) {
	req := sampleCreateRequest()
	e := NewFromCreateRequest(req)

	require.Equal(t, req.Title, e.Title)
	require.Equal(t, req.Tags, e.Tags)
	require.Empty(t, e.Slug, "slug is derived later by the save pipeline")
	require.True(t, e.ID.IsZero(), "id is assigned on insert")
	require.False(t, e.CreatedAt.IsZero())
	require.Equal(t, e.CreatedAt, e.UpdatedAt)
}

func TestApplyUpdateRequestKeepsIdentity(t *testing.T) {
	e := NewFromCreateRequest(sampleCreateRequest())
	e.Slug = "go-meetup"
	e.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e.UpdatedAt = e.CreatedAt

	req := UpdateEventRequest{
		Title:       e.Title,
		Description: "A longer description.",
		Overview:    e.Overview,
		Image:       e.Image,
		Venue:       e.Venue,
		Location:    e.Location,
		Date:        e.Date,
		Time:        e.Time,
		Mode:        e.Mode,
		Audience:    e.Audience,
		Agenda:      e.Agenda,
		Organizer:   e.Organizer,
		Tags:        e.Tags,
	}

	updated := ApplyUpdateRequest(e, req)

	require.Equal(t, "A longer description.", updated.Description)
	require.Equal(t, e.Slug, updated.Slug, "slug untouched by a plain field update")
	require.Equal(t, e.CreatedAt, updated.CreatedAt)
	require.True(t, updated.UpdatedAt.After(e.UpdatedAt))
}
