package repository

import (
	"context"

	"portwatch/internal/core/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PositionRepository stores received positions. Positions are append-only;
// there is no update or delete.
type PositionRepository interface {
	Create(ctx context.Context, position *model.Position) error
	// FindByMMSI returns a vessel's positions newest first.
	FindByMMSI(ctx context.Context, mmsi int64) ([]*model.Position, error)
	FindLatestByMMSI(ctx context.Context, mmsi int64) (*model.Position, error)
	// FindLatestPerVessel returns the most recently received position of
	// every vessel that has at least one.
	FindLatestPerVessel(ctx context.Context) ([]*model.Position, error)
}

type MongoPositionRepository struct {
	collection *mongo.Collection
}

func NewMongoPositionRepository(db *mongo.Database) *MongoPositionRepository {
	return &MongoPositionRepository{
		collection: db.Collection("positions"),
	}
}

// EnsureIndexes creates the lookup and geo indexes. The 2dsphere index is for
// downstream consumers; the core itself never runs geo queries.
func (r *MongoPositionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "mmsi", Value: 1}, {Key: "receivedAt", Value: -1}}},
		{Keys: bson.D{{Key: "geom", Value: "2dsphere"}}},
	})
	return err
}

func (r *MongoPositionRepository) Create(ctx context.Context, position *model.Position) error {
	_, err := r.collection.InsertOne(ctx, position)
	return err
}

func (r *MongoPositionRepository) FindByMMSI(ctx context.Context, mmsi int64) ([]*model.Position, error) {
	opts := options.Find().SetSort(bson.D{{Key: "receivedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"mmsi": mmsi}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var positions []*model.Position
	if err = cursor.All(ctx, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *MongoPositionRepository) FindLatestByMMSI(ctx context.Context, mmsi int64) (*model.Position, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "receivedAt", Value: -1}})
	var position model.Position
	err := r.collection.FindOne(ctx, bson.M{"mmsi": mmsi}, opts).Decode(&position)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *MongoPositionRepository) FindLatestPerVessel(ctx context.Context) ([]*model.Position, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "mmsi", Value: 1}, {Key: "receivedAt", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$mmsi"},
			{Key: "doc", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$doc"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var positions []*model.Position
	if err = cursor.All(ctx, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}
