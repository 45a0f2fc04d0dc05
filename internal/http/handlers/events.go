package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mujq1695/dev-events/internal/db"
	"github.com/mujq1695/dev-events/internal/domain/event"
	"github.com/mujq1695/dev-events/internal/domain/validation"
	"github.com/mujq1695/dev-events/internal/utils"
)

// EventsCreator is the slice of the repo the handler actually consumes.
type EventsCreator interface {
	Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	GetBySlug(ctx context.Context, slug string) (event.Event, error)
	Count(ctx context.Context, f event.ListEventsFilter) (int, error)
	ListCursor(ctx context.Context, f event.ListEventsFilter, afterDate, afterID string) ([]event.Event, *string, bool, error)
	Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventsHandler struct {
	repo EventsCreator
}

func NewEventsHandler(repo EventsCreator) *EventsHandler {
	return &EventsHandler{repo: repo}
}

// respondEventError maps pipeline and storage failures onto the API
// envelope. The original error text travels through untouched.
func respondEventError(ctx *gin.Context, err error) {
	var ve validation.Error
	var re validation.ReferenceError

	switch {
	case errors.As(err, &ve):
		RespondBadRequest(ctx, err.Error(), gin.H{"fields": []validation.Error{ve}})
	case errors.As(err, &re):
		RespondNotFound(ctx, err.Error())
	case errors.Is(err, event.ErrNotFound):
		RespondNotFound(ctx, "Event not found")
	case errors.Is(err, db.ErrMissingURI):
		RespondUnavailable(ctx, err.Error())
	case mongo.IsDuplicateKeyError(err):
		// a concurrent save won the slug race between the probe and the insert
		RespondConflict(ctx, "slug_conflict", "an event with this slug was just created, retry the request")
	default:
		RespondInternal(ctx, "Could not complete the event operation")
	}
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	e, err := h.repo.Create(ctx.Request.Context(), req)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, e)
}

// parseListQuery reads the optional filters off the query string.
func parseListQuery(ctx *gin.Context) (event.ListEventsFilter, utils.EventCursor, error) {
	var f event.ListEventsFilter

	if v := ctx.Query("tag"); v != "" {
		f.Tag = &v
	}
	if v := ctx.Query("mode"); v != "" {
		f.Mode = &v
	}
	if v := ctx.Query("q"); v != "" {
		f.Query = &v
	}

	f.Limit = 20

	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return f, utils.EventCursor{}, errors.New("limit must be a number between 1 and 100")
		}
		f.Limit = n
	}

	var cur utils.EventCursor

	if v := ctx.Query("cursor"); v != "" {
		decoded, err := utils.DecodeEventCursor(v)
		if err != nil {
			return f, utils.EventCursor{}, errors.New("cursor is not valid")
		}
		cur = decoded
	}

	return f, cur, nil
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	f, cur, err := parseListQuery(ctx)

	if err != nil {
		RespondBadRequest(ctx, err.Error(), nil)
		return
	}

	items, nextCursor, hasMore, err := h.repo.ListCursor(ctx.Request.Context(), f, cur.Date, cur.ID)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	count, err := h.repo.Count(ctx.Request.Context(), f)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items":      items,
		"count":      count,
		"nextCursor": nextCursor,
		"hasMore":    hasMore,
	})
}

func (h *EventsHandler) GetEventBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")

	e, err := h.repo.GetBySlug(ctx.Request.Context(), slug)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, e)
}

// UpdateEvent is addressed by slug like every public route; the slug is
// resolved to the stored document first and the update itself runs by id,
// so a title change can move the slug without orphaning the request.
func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	var req event.UpdateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	current, err := h.repo.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	e, err := h.repo.Update(ctx.Request.Context(), current.ID.Hex(), req)

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *EventsHandler) DeleteEvent(ctx *gin.Context) {
	current, err := h.repo.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	err = h.repo.Delete(ctx.Request.Context(), current.ID.Hex())

	if err != nil {
		respondEventError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
