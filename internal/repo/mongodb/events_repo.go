package mongodb

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mujq1695/dev-events/internal/db"
	"github.com/mujq1695/dev-events/internal/domain/event"
	"github.com/mujq1695/dev-events/internal/observability"
	"github.com/mujq1695/dev-events/internal/utils"
)

const eventsCollection = "events"

type EventsRepo struct {
	conn *db.Connector
	prom *observability.Prom
}

// constructor function

func NewEventsRepo(conn *db.Connector, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		conn: conn,
		prom: prom,
	}
}

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *EventsRepo) collection(ctx context.Context) (*mongo.Collection, error) {
	dbase, err := r.conn.Database(ctx)
	if err != nil {
		return nil, err
	}

	return dbase.Collection(eventsCollection), nil
}

func (r *EventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return event.Event{}, err
	}

	e := event.NewFromCreateRequest(req)

	if err := r.runSaveHooks(ctx, &e, nil); err != nil {
		return event.Event{}, err
	}

	err = r.observe("events.insert", func() error {
		res, ierr := col.InsertOne(ctx, e)
		if ierr != nil {
			return ierr
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			e.ID = oid
		}
		return nil
	})
	if err != nil {
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) GetBySlug(ctx context.Context, slug string) (event.Event, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return event.Event{}, err
	}

	var e event.Event

	err = r.observe("events.get_by_slug", func() error {
		return col.FindOne(ctx, bson.M{"slug": slug}).Decode(&e)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return event.Event{}, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// a malformed id cannot name a stored document
		return event.Event{}, event.ErrNotFound
	}

	var e event.Event

	err = r.observe("events.get_by_id", func() error {
		return col.FindOne(ctx, bson.M{"_id": oid}).Decode(&e)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

// buildListFilter translates optional filters into a query document.
func buildListFilter(f event.ListEventsFilter) bson.M {
	q := bson.M{}

	if f.Tag != nil {
		q["tags"] = *f.Tag
	}
	if f.Mode != nil {
		q["mode"] = *f.Mode
	}
	if f.Query != nil {
		q["title"] = bson.M{"$regex": regexp.QuoteMeta(*f.Query), "$options": "i"}
	}

	return q
}

func (r *EventsRepo) Count(ctx context.Context, f event.ListEventsFilter) (int, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	var n int64

	err = r.observe("events.count", func() error {
		var cerr error
		n, cerr = col.CountDocuments(ctx, buildListFilter(f))
		return cerr
	})

	return int(n), err
}

// ListCursor pages events in (date, id) order. Canonical date strings sort
// chronologically, so a plain ascending sort is stable.
func (r *EventsRepo) ListCursor(
	ctx context.Context,
	f event.ListEventsFilter,
	afterDate string,
	afterID string,
) (items []event.Event, nextCursor *string, hasMore bool, err error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, nil, false, err
	}

	q := buildListFilter(f)

	if afterDate != "" && afterID != "" {
		oid, oerr := primitive.ObjectIDFromHex(afterID)
		if oerr != nil {
			return nil, nil, false, oerr
		}
		q["$or"] = []bson.M{
			{"date": bson.M{"$gt": afterDate}},
			{"date": afterDate, "_id": bson.M{"$gt": oid}},
		}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit + 1))

	out := make([]event.Event, 0, limit)

	err = r.observe("events.list_cursor", func() error {
		cur, qerr := col.Find(ctx, q, findOpts)
		if qerr != nil {
			return qerr
		}
		return cur.All(ctx, &out)
	})
	if err != nil {
		return nil, nil, false, err
	}

	if len(out) > limit {
		hasMore = true
		out = out[:limit]
		last := out[len(out)-1]
		cur, encErr := utils.EncodeEventCursor(last.Date, last.ID.Hex())
		if encErr != nil {
			return nil, nil, false, encErr
		}
		nextCursor = &cur
	}

	return out, nextCursor, hasMore, nil
}

func (r *EventsRepo) Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return event.Event{}, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return event.Event{}, event.ErrNotFound
	}

	// load current, overlay the payload, re-run the save pipeline
	var prev event.Event

	err = r.observe("events.update.load", func() error {
		return col.FindOne(ctx, bson.M{"_id": oid}).Decode(&prev)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	draft := event.ApplyUpdateRequest(prev, req)

	if err := r.runSaveHooks(ctx, &draft, &prev); err != nil {
		return event.Event{}, err
	}

	err = r.observe("events.update.replace", func() error {
		_, rerr := col.ReplaceOne(ctx, bson.M{"_id": oid}, draft)
		return rerr
	})
	if err != nil {
		return event.Event{}, err
	}

	return draft, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return event.ErrNotFound
	}

	var deleted int64

	err = r.observe("events.delete", func() error {
		res, derr := col.DeleteOne(ctx, bson.M{"_id": oid})
		if derr != nil {
			return derr
		}
		deleted = res.DeletedCount
		return nil
	})
	if err != nil {
		return err
	}

	// bookings keep their weak reference; nothing cascades
	if deleted == 0 {
		return event.ErrNotFound
	}

	return nil
}

// slugTaken reports whether some other document already owns the slug.
func (r *EventsRepo) slugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return false, err
	}

	q := bson.M{"slug": slug}
	if !exclude.IsZero() {
		q["_id"] = bson.M{"$ne": exclude}
	}

	var n int64

	err = r.observe("events.slug_probe", func() error {
		var cerr error
		n, cerr = col.CountDocuments(ctx, q, options.Count().SetLimit(1))
		return cerr
	})

	return n > 0, err
}
