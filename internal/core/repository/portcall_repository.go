package repository

import (
	"context"
	"errors"
	"time"

	"portwatch/internal/core/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrOpenCallExists is returned by Open when the vessel already has an
	// open call. Overlapping detector runs hit this instead of writing a
	// second open record.
	ErrOpenCallExists = errors.New("vessel already has an open port call")
	// ErrCallNotOpen is returned by Close when the call is missing or was
	// already closed.
	ErrCallNotOpen = errors.New("port call is not open")
)

// PortCallRepository stores port-call lifecycle records. Open and Close are
// conditional writes: the one-open-call-per-vessel invariant is enforced by
// the storage layer, not by callers.
type PortCallRepository interface {
	Open(ctx context.Context, call *model.PortCall) error
	Close(ctx context.Context, id string, departureAt time.Time) error
	FindOpenByMMSI(ctx context.Context, mmsi int64) (*model.PortCall, error)
	FindOpen(ctx context.Context) ([]*model.PortCall, error)
	FindAll(ctx context.Context, limit int64) ([]*model.PortCall, error)
}

type MongoPortCallRepository struct {
	collection *mongo.Collection
}

func NewMongoPortCallRepository(db *mongo.Database) *MongoPortCallRepository {
	return &MongoPortCallRepository{
		collection: db.Collection("port_calls"),
	}
}

// EnsureIndexes creates the partial unique index over open calls. This index
// is what makes Open safe under overlapping detector runs: the second writer
// gets a duplicate-key error, surfaced as ErrOpenCallExists.
func (r *MongoPortCallRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "mmsi", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"open": true}),
		},
		{Keys: bson.D{{Key: "arrivalAt", Value: -1}}},
	})
	return err
}

func (r *MongoPortCallRepository) Open(ctx context.Context, call *model.PortCall) error {
	call.Open = true
	_, err := r.collection.InsertOne(ctx, call)
	if mongo.IsDuplicateKeyError(err) {
		return ErrOpenCallExists
	}
	return err
}

func (r *MongoPortCallRepository) Close(ctx context.Context, id string, departureAt time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "open": true},
		bson.M{
			"$set":   bson.M{"departureAt": departureAt},
			"$unset": bson.M{"open": ""},
		},
	)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return ErrCallNotOpen
	}
	return nil
}

func (r *MongoPortCallRepository) FindOpenByMMSI(ctx context.Context, mmsi int64) (*model.PortCall, error) {
	var call model.PortCall
	err := r.collection.FindOne(ctx, bson.M{"mmsi": mmsi, "open": true}).Decode(&call)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *MongoPortCallRepository) FindOpen(ctx context.Context) ([]*model.PortCall, error) {
	opts := options.Find().SetSort(bson.D{{Key: "arrivalAt", Value: -1}})
	return r.find(ctx, bson.M{"open": true}, opts)
}

func (r *MongoPortCallRepository) FindAll(ctx context.Context, limit int64) ([]*model.PortCall, error) {
	opts := options.Find().SetSort(bson.D{{Key: "arrivalAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoPortCallRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.PortCall, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var calls []*model.PortCall
	if err = cursor.All(ctx, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}
