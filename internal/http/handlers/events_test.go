package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mujq1695/dev-events/internal/domain/event"
	"github.com/mujq1695/dev-events/internal/domain/validation"
	"github.com/mujq1695/dev-events/internal/http/handlers"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake repository implementation of the handlers.EventsCreator interface

type fakeEventsRepo struct {
	createFn     func(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	getBySlugFn  func(ctx context.Context, slug string) (event.Event, error)
	countFn      func(ctx context.Context, f event.ListEventsFilter) (int, error)
	listCursorFn func(ctx context.Context, f event.ListEventsFilter, afterDate, afterID string) ([]event.Event, *string, bool, error)
	updateFn     func(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (f *fakeEventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}

	return event.Event{}, nil
}

func (f *fakeEventsRepo) GetBySlug(ctx context.Context, slug string) (event.Event, error) {
	if f.getBySlugFn != nil {
		return f.getBySlugFn(ctx, slug)
	}

	return event.Event{}, nil
}

func (f *fakeEventsRepo) Count(ctx context.Context, filter event.ListEventsFilter) (int, error) {
	if f.countFn != nil {
		return f.countFn(ctx, filter)
	}
	return 0, nil
}

func (f *fakeEventsRepo) ListCursor(
	ctx context.Context,
	filter event.ListEventsFilter,
	afterDate string,
	afterID string,
) ([]event.Event, *string, bool, error) {
	if f.listCursorFn != nil {
		return f.listCursorFn(ctx, filter, afterDate, afterID)
	}
	return []event.Event{}, nil, false, nil
}

func (f *fakeEventsRepo) Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}

	return event.Event{}, nil
}

func (f *fakeEventsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}

	return nil
}

func newEventsRouter(repo handlers.EventsCreator) *gin.Engine {
	r := gin.New()
	h := handlers.NewEventsHandler(repo)

	r.POST("/events", h.CreateEvent)
	r.GET("/events", h.ListEvents)
	r.GET("/events/:slug", h.GetEventBySlug)
	r.PUT("/events/:slug", h.UpdateEvent)
	r.DELETE("/events/:slug", h.DeleteEvent)

	return r
}

func sampleEvent() event.Event {
	return event.Event{
		ID:          primitive.NewObjectID(),
		Title:       "Go Meetup",
		Slug:        "go-meetup",
		Description: "An evening of talks.",
		Overview:    "Talks and pizza.",
		Image:       "https://cdn.example.com/go-meetup.png",
		Venue:       "Community Hall",
		Location:    "Berlin, Germany",
		Date:        "2024-05-20",
		Time:        "18:30",
		Mode:        "offline",
		Audience:    "Go developers",
		Agenda:      []string{"Welcome", "Talks"},
		Organizer:   "Go Berlin",
		Tags:        []string{"go", "meetup"},
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func sampleCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Go Meetup",
		"description": "An evening of talks.",
		"overview":    "Talks and pizza.",
		"image":       "https://cdn.example.com/go-meetup.png",
		"venue":       "Community Hall",
		"location":    "Berlin, Germany",
		"date":        "5/20/2024",
		"time":        "6:30 PM",
		"mode":        "offline",
		"audience":    "Go developers",
		"agenda":      []string{"Welcome", "Talks"},
		"organizer":   "Go Berlin",
		"tags":        []string{"go", "meetup"},
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestCreateEventReturnsNormalizedRecord(t *testing.T) {
	stored := sampleEvent()

	repo := &fakeEventsRepo{
		createFn: func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
			if req.Date != "5/20/2024" || req.Time != "6:30 PM" {
				t.Fatalf("raw fields must reach the pipeline untouched, got date=%q time=%q", req.Date, req.Time)
			}
			return stored, nil
		},
	}

	w := doJSON(t, newEventsRouter(repo), http.MethodPost, "/events", sampleCreateBody())

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var got event.Event
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if got.Slug != "go-meetup" || got.Date != "2024-05-20" || got.Time != "18:30" {
		t.Fatalf("response must carry the persisted canonical record, got %+v", got)
	}
}

func TestCreateEventMissingFieldsRejectedBeforeRepo(t *testing.T) {
	called := false
	repo := &fakeEventsRepo{
		createFn: func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
			called = true
			return event.Event{}, nil
		},
	}

	body := sampleCreateBody()
	delete(body, "title")
	delete(body, "agenda")

	w := doJSON(t, newEventsRouter(repo), http.MethodPost, "/events", body)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if called {
		t.Fatal("binding failure must short-circuit before the repo")
	}
}

func TestCreateEventValidationErrorMapsTo400(t *testing.T) {
	repo := &fakeEventsRepo{
		createFn: func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
			return event.Event{}, validation.Error{Field: "date", Value: "not a date", Reason: "cannot be parsed as a calendar date"}
		},
	}

	w := doJSON(t, newEventsRouter(repo), http.MethodPost, "/events", sampleCreateBody())

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("not a date")) {
		t.Fatalf("error must name the offending value, body: %s", w.Body.String())
	}
}

func TestCreateEventSlugRaceMapsTo409(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}

	repo := &fakeEventsRepo{
		createFn: func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
			return event.Event{}, dup
		},
	}

	w := doJSON(t, newEventsRouter(repo), http.MethodPost, "/events", sampleCreateBody())

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestGetEventBySlug(t *testing.T) {
	stored := sampleEvent()

	repo := &fakeEventsRepo{
		getBySlugFn: func(ctx context.Context, slug string) (event.Event, error) {
			if slug != "go-meetup" {
				return event.Event{}, event.ErrNotFound
			}
			return stored, nil
		},
	}

	r := newEventsRouter(repo)

	w := doJSON(t, r, http.MethodGet, "/events/go-meetup", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("ETag") == "" {
		t.Fatal("detail response must carry an ETag")
	}

	w = doJSON(t, r, http.MethodGet, "/events/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetEventBySlugNotModified(t *testing.T) {
	stored := sampleEvent()

	repo := &fakeEventsRepo{
		getBySlugFn: func(ctx context.Context, slug string) (event.Event, error) {
			return stored, nil
		},
	}
	r := newEventsRouter(repo)

	first := doJSON(t, r, http.MethodGet, "/events/go-meetup", nil)
	etag := first.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/events/go-meetup", nil)
	req.Header.Set("If-None-Match", etag)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", w.Code)
	}
}

func TestListEventsFiltersAndEnvelope(t *testing.T) {
	stored := sampleEvent()
	next := "opaque-cursor"

	repo := &fakeEventsRepo{
		listCursorFn: func(ctx context.Context, f event.ListEventsFilter, afterDate, afterID string) ([]event.Event, *string, bool, error) {
			if f.Tag == nil || *f.Tag != "go" {
				t.Fatalf("tag filter not forwarded, got %+v", f)
			}
			if f.Mode == nil || *f.Mode != "offline" {
				t.Fatalf("mode filter not forwarded, got %+v", f)
			}
			if f.Limit != 5 {
				t.Fatalf("limit = %d, want 5", f.Limit)
			}
			return []event.Event{stored}, &next, true, nil
		},
		countFn: func(ctx context.Context, f event.ListEventsFilter) (int, error) {
			return 12, nil
		},
	}

	w := doJSON(t, newEventsRouter(repo), http.MethodGet, "/events?tag=go&mode=offline&limit=5", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Items      []event.Event `json:"items"`
		Count      int           `json:"count"`
		NextCursor *string       `json:"nextCursor"`
		HasMore    bool          `json:"hasMore"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Items) != 1 || resp.Count != 12 || !resp.HasMore || resp.NextCursor == nil {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestListEventsBadLimit(t *testing.T) {
	w := doJSON(t, newEventsRouter(&fakeEventsRepo{}), http.MethodGet, "/events?limit=0", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListEventsBadCursor(t *testing.T) {
	w := doJSON(t, newEventsRouter(&fakeEventsRepo{}), http.MethodGet, "/events?cursor=%21%21not-base64", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateEventResolvesSlugToID(t *testing.T) {
	stored := sampleEvent()

	var updatedID string

	repo := &fakeEventsRepo{
		getBySlugFn: func(ctx context.Context, slug string) (event.Event, error) {
			if slug != "go-meetup" {
				return event.Event{}, event.ErrNotFound
			}
			return stored, nil
		},
		updateFn: func(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
			updatedID = id
			out := stored
			out.Description = req.Description
			return out, nil
		},
	}

	body := sampleCreateBody()
	body["description"] = "Now with lightning talks."

	w := doJSON(t, newEventsRouter(repo), http.MethodPut, "/events/go-meetup", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if updatedID != stored.ID.Hex() {
		t.Fatalf("update ran against id %q, want %q", updatedID, stored.ID.Hex())
	}
}

func TestUpdateEventUnknownSlug(t *testing.T) {
	repo := &fakeEventsRepo{
		getBySlugFn: func(ctx context.Context, slug string) (event.Event, error) {
			return event.Event{}, event.ErrNotFound
		},
	}

	w := doJSON(t, newEventsRouter(repo), http.MethodPut, "/events/nope", sampleCreateBody())

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDeleteEvent(t *testing.T) {
	stored := sampleEvent()

	repo := &fakeEventsRepo{
		getBySlugFn: func(ctx context.Context, slug string) (event.Event, error) {
			return stored, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			if id != stored.ID.Hex() {
				t.Fatalf("delete ran against id %q, want %q", id, stored.ID.Hex())
			}
			return nil
		},
	}

	w := doJSON(t, newEventsRouter(repo), http.MethodDelete, "/events/go-meetup", nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
}

func TestDeleteEventStorageErrorMapsTo500(t *testing.T) {
	repo := &fakeEventsRepo{
		getBySlugFn: func(ctx context.Context, slug string) (event.Event, error) {
			return sampleEvent(), nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			return errors.New("socket closed")
		},
	}

	w := doJSON(t, newEventsRouter(repo), http.MethodDelete, "/events/go-meetup", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
