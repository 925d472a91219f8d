package model

import (
	"time"

	"portwatch/internal/core/util"
)

// Point is a GeoJSON point, longitude first. Stored alongside the raw
// coordinates so the positions collection can carry a 2dsphere index for
// downstream consumers.
type Point struct {
	Type        string     `json:"type" bson:"type"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
}

func NewPoint(lon, lat float64) Point {
	return Point{Type: "Point", Coordinates: [2]float64{lon, lat}}
}

func (p Point) Lon() float64 { return p.Coordinates[0] }
func (p Point) Lat() float64 { return p.Coordinates[1] }

// Position is one received AIS position report. Positions are append-only:
// they are never updated or deleted once stored.
type Position struct {
	ID         string    `json:"id" bson:"_id"`
	MMSI       int64     `json:"mmsi" bson:"mmsi"`
	ReceivedAt time.Time `json:"receivedAt" bson:"receivedAt"`
	Latitude   float64   `json:"latitude" bson:"latitude"`
	Longitude  float64   `json:"longitude" bson:"longitude"`
	SOG        *float64  `json:"sog,omitempty" bson:"sog,omitempty"`
	COG        *float64  `json:"cog,omitempty" bson:"cog,omitempty"`
	NavStatus  string    `json:"navStatus,omitempty" bson:"navStatus,omitempty"`
	Geom       Point     `json:"geom" bson:"geom"`
}

// NewPosition stamps the record with the given receipt time, which is the
// ingestor's local clock rather than anything the feed reports.
func NewPosition(mmsi int64, lat, lon float64, receivedAt time.Time) *Position {
	return &Position{
		ID:         util.GenerateID(),
		MMSI:       mmsi,
		ReceivedAt: receivedAt,
		Latitude:   lat,
		Longitude:  lon,
		Geom:       NewPoint(lon, lat),
	}
}
