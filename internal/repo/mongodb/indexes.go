package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes runs after every successful connect. Creating an index that
// already exists with the same spec is a no-op server side.
//
// The unique slug index is what settles concurrent saves racing past the
// slug probe, and the event/email pair keeps one booking per address.
func EnsureIndexes(ctx context.Context, dbase *mongo.Database) error {
	_, err := dbase.Collection(eventsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("events_slug_uniq"),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("events_date_id"),
		},
	})
	if err != nil {
		return err
	}

	_, err = dbase.Collection(bookingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("bookings_event_email_uniq"),
		},
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("bookings_event_created"),
		},
	})

	return err
}
