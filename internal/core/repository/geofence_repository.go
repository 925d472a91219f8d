package repository

import (
	"context"

	"portwatch/internal/core/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GeofenceRepository holds the named zone geometries. The core only reads
// them; Upsert exists for the out-of-band loader.
type GeofenceRepository interface {
	Upsert(ctx context.Context, geofence *model.Geofence) error
	FindByID(ctx context.Context, id string) (*model.Geofence, error)
}

type MongoGeofenceRepository struct {
	collection *mongo.Collection
}

func NewMongoGeofenceRepository(db *mongo.Database) *MongoGeofenceRepository {
	return &MongoGeofenceRepository{
		collection: db.Collection("geofences"),
	}
}

func (r *MongoGeofenceRepository) Upsert(ctx context.Context, geofence *model.Geofence) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": geofence.ID}, geofence, opts)
	return err
}

func (r *MongoGeofenceRepository) FindByID(ctx context.Context, id string) (*model.Geofence, error) {
	var geofence model.Geofence
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&geofence)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &geofence, nil
}
