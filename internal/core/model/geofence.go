package model

// Geofence is an immutable named zone. Geometry holds the GeoJSON document
// (Geometry, Feature or FeatureCollection) exactly as loaded out-of-band;
// the core only reads it.
type Geofence struct {
	ID       string `json:"id" bson:"_id"`
	Geometry string `json:"geometry" bson:"geometry"`
}
