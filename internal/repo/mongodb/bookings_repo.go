package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mujq1695/dev-events/internal/db"
	"github.com/mujq1695/dev-events/internal/domain/booking"
	"github.com/mujq1695/dev-events/internal/domain/event"
	"github.com/mujq1695/dev-events/internal/domain/validation"
	"github.com/mujq1695/dev-events/internal/observability"
	"github.com/mujq1695/dev-events/internal/utils"
)

const bookingsCollection = "bookings"

type BookingsRepo struct {
	conn *db.Connector
	prom *observability.Prom
}

func NewBookingsRepo(conn *db.Connector, prom *observability.Prom) *BookingsRepo {
	return &BookingsRepo{
		conn: conn,
		prom: prom,
	}
}

func (r *BookingsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *BookingsRepo) collection(ctx context.Context) (*mongo.Collection, error) {
	dbase, err := r.conn.Database(ctx)
	if err != nil {
		return nil, err
	}

	return dbase.Collection(bookingsCollection), nil
}

// bookingHook is one pre-save step for a booking. rawEventID is the
// identifier exactly as the caller sent it, so errors can name it.
type bookingHook func(ctx context.Context, draft *booking.Booking, rawEventID string) error

func (r *BookingsRepo) saveHooks() []bookingHook {
	return []bookingHook{
		checkEmail,
		r.requireEvent,
	}
}

// checkEmail re-validates the normalized address even though the binding
// layer already did; writes that skip the HTTP path get the same guard.
func checkEmail(ctx context.Context, draft *booking.Booking, rawEventID string) error {
	if !booking.ValidEmail(draft.Email) {
		return validation.Error{Field: "email", Value: draft.Email, Reason: "must look like name@example.com"}
	}
	return nil
}

// requireEvent resolves the referenced event. This is a point-in-time check;
// an event deleted between here and the insert leaves a dangling booking,
// which the model accepts.
func (r *BookingsRepo) requireEvent(ctx context.Context, draft *booking.Booking, rawEventID string) error {
	oid, err := primitive.ObjectIDFromHex(rawEventID)
	if err != nil {
		return validation.ReferenceError{Collection: "events", ID: rawEventID}
	}

	dbase, err := r.conn.Database(ctx)
	if err != nil {
		return err
	}

	var n int64

	err = r.observe("bookings.event_check", func() error {
		var cerr error
		n, cerr = dbase.Collection(eventsCollection).CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
		return cerr
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return validation.ReferenceError{Collection: "events", ID: rawEventID}
	}

	draft.EventID = oid
	return nil
}

func (r *BookingsRepo) runSaveHooks(ctx context.Context, draft *booking.Booking, rawEventID string) error {
	for _, hook := range r.saveHooks() {
		if err := hook(ctx, draft, rawEventID); err != nil {
			return err
		}
	}
	return nil
}

func (r *BookingsRepo) Create(ctx context.Context, req booking.CreateBookingRequest) (booking.Booking, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return booking.Booking{}, err
	}

	b := booking.NewFromCreateRequest(req)

	if err := r.runSaveHooks(ctx, &b, req.EventID); err != nil {
		return booking.Booking{}, err
	}

	err = r.observe("bookings.insert", func() error {
		res, ierr := col.InsertOne(ctx, b)
		if ierr != nil {
			return ierr
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			b.ID = oid
		}
		return nil
	})
	if err != nil {
		return booking.Booking{}, err
	}

	return b, nil
}

func (r *BookingsRepo) ListByEventCursor(
	ctx context.Context,
	eventID string,
	limit int,
	afterCreatedAt time.Time,
	afterID string,
) (items []booking.Booking, nextCursor *string, hasMore bool, err error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, nil, false, err
	}

	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, nil, false, event.ErrNotFound
	}

	q := bson.M{"event_id": oid}

	if !afterCreatedAt.IsZero() && afterID != "" {
		afterOID, oerr := primitive.ObjectIDFromHex(afterID)
		if oerr != nil {
			return nil, nil, false, oerr
		}
		q["$or"] = []bson.M{
			{"created_at": bson.M{"$gt": afterCreatedAt}},
			{"created_at": afterCreatedAt, "_id": bson.M{"$gt": afterOID}},
		}
	}

	if limit <= 0 {
		limit = 20
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit + 1))

	out := make([]booking.Booking, 0, limit)

	err = r.observe("bookings.list_by_event_cursor", func() error {
		cur, qerr := col.Find(ctx, q, findOpts)
		if qerr != nil {
			return qerr
		}
		return cur.All(ctx, &out)
	})
	if err != nil {
		return nil, nil, false, err
	}

	// in the event i want a 404 when the event itself does not exist
	if len(out) == 0 {
		var n int64
		err = r.observe("bookings.list.check_event_exists", func() error {
			dbase, derr := r.conn.Database(ctx)
			if derr != nil {
				return derr
			}
			var cerr error
			n, cerr = dbase.Collection(eventsCollection).CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
			return cerr
		})
		if err != nil {
			return nil, nil, false, err
		}
		if n == 0 {
			return nil, nil, false, event.ErrNotFound
		}
	}

	if len(out) > limit {
		hasMore = true
		out = out[:limit]
		last := out[len(out)-1]
		cur, encErr := utils.EncodeBookingCursor(last.CreatedAt, last.ID.Hex())
		if encErr != nil {
			return nil, nil, false, encErr
		}
		nextCursor = &cur
	}

	return out, nextCursor, hasMore, nil
}
