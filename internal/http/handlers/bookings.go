package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mujq1695/dev-events/internal/db"
	"github.com/mujq1695/dev-events/internal/domain/booking"
	"github.com/mujq1695/dev-events/internal/domain/event"
	"github.com/mujq1695/dev-events/internal/domain/validation"
	"github.com/mujq1695/dev-events/internal/notifications"
	"github.com/mujq1695/dev-events/internal/utils"
)

type BookingsCreator interface {
	Create(ctx context.Context, req booking.CreateBookingRequest) (booking.Booking, error)
	ListByEventCursor(ctx context.Context, eventID string, limit int, afterCreatedAt time.Time, afterID string) ([]booking.Booking, *string, bool, error)
}

// EventsGetter resolves the slug in the URL to the stored event.
type EventsGetter interface {
	GetBySlug(ctx context.Context, slug string) (event.Event, error)
}

type BookingsHandler struct {
	repo     BookingsCreator
	events   EventsGetter
	notifier notifications.Notifier
}

func NewBookingsHandler(repo BookingsCreator, events EventsGetter, notifier notifications.Notifier) *BookingsHandler {
	return &BookingsHandler{repo: repo, events: events, notifier: notifier}
}

func respondBookingError(ctx *gin.Context, err error) {
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
		RespondConflict(ctx, "already_booked", "this email is already booked for this event")
	default:
		RespondInternal(ctx, "Could not complete the booking operation")
	}
}

func (h *BookingsHandler) CreateBooking(ctx *gin.Context) {
	var req booking.CreateBookingRequest

	if !BindJSON(ctx, &req) {
		return
	}

	e, err := h.events.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))

	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	// the resolved id is the source of truth; the save pipeline re-checks
	// the event still exists right before the write
	req.EventID = e.ID.Hex()

	b, err := h.repo.Create(ctx.Request.Context(), req)

	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	h.sendConfirmation(ctx.Request.Context(), b, e)

	ctx.JSON(http.StatusCreated, b)
}

// sendConfirmation is best effort: the booking is already committed, so a
// provider failure is logged and never surfaced to the caller.
func (h *BookingsHandler) sendConfirmation(ctx context.Context, b booking.Booking, e event.Event) {
	if h.notifier == nil {
		return
	}

	err := h.notifier.SendBookingConfirmation(ctx, notifications.SendBookingConfirmationInput{
		Email:      b.Email,
		EventID:    b.EventID.Hex(),
		EventTitle: e.Title,
		EventDate:  e.Date,
		EventTime:  e.Time,
		BookingID:  b.ID.Hex(),
	})

	if err != nil {
		slog.Default().ErrorContext(ctx, "booking confirmation failed",
			"booking_id", b.ID.Hex(),
			"event_id", b.EventID.Hex(),
			"err", err,
		)
	}
}

func (h *BookingsHandler) ListBookings(ctx *gin.Context) {
	e, err := h.events.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))

	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	limit := 20

	if v := ctx.Query("limit"); v != "" {
		n, aerr := strconv.Atoi(v)
		if aerr != nil || n < 1 || n > 100 {
			RespondBadRequest(ctx, "limit must be a number between 1 and 100", nil)
			return
		}
		limit = n
	}

	var cur utils.BookingCursor

	if v := ctx.Query("cursor"); v != "" {
		decoded, derr := utils.DecodeBookingCursor(v)
		if derr != nil {
			RespondBadRequest(ctx, "cursor is not valid", nil)
			return
		}
		cur = decoded
	}

	items, nextCursor, hasMore, err := h.repo.ListByEventCursor(ctx.Request.Context(), e.ID.Hex(), limit, cur.CreatedAt, cur.ID)

	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      items,
		"count":      len(items),
		"nextCursor": nextCursor,
		"hasMore":    hasMore,
	})
}
