package repository

import (
	"context"

	"portwatch/internal/core/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShipRepository stores vessel static info keyed by MMSI.
type ShipRepository interface {
	// Upsert merges the incoming static report into the stored record.
	// Destination is sticky: an empty incoming destination preserves the
	// stored one.
	Upsert(ctx context.Context, ship *model.Ship) error
	FindByMMSI(ctx context.Context, mmsi int64) (*model.Ship, error)
}

type MongoShipRepository struct {
	collection *mongo.Collection
}

func NewMongoShipRepository(db *mongo.Database) *MongoShipRepository {
	return &MongoShipRepository{
		collection: db.Collection("ships"),
	}
}

func (r *MongoShipRepository) Upsert(ctx context.Context, ship *model.Ship) error {
	set := bson.M{
		"name":      ship.Name,
		"callSign":  ship.CallSign,
		"imoNumber": ship.IMONumber,
		"shipType":  ship.ShipType,
		"updatedAt": ship.UpdatedAt,
	}
	if ship.Destination != "" {
		set["destination"] = ship.Destination
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": ship.MMSI},
		bson.M{"$set": set},
		opts,
	)
	return err
}

func (r *MongoShipRepository) FindByMMSI(ctx context.Context, mmsi int64) (*model.Ship, error) {
	var ship model.Ship
	err := r.collection.FindOne(ctx, bson.M{"_id": mmsi}).Decode(&ship)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ship, nil
}
