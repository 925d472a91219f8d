package model

import "time"

// Ship is the static info reported for a vessel, keyed by MMSI. It is a weak
// side table: lifecycle detection never consults it.
type Ship struct {
	MMSI        int64     `json:"mmsi" bson:"_id"`
	Name        string    `json:"name,omitempty" bson:"name,omitempty"`
	CallSign    string    `json:"callSign,omitempty" bson:"callSign,omitempty"`
	IMONumber   int64     `json:"imoNumber,omitempty" bson:"imoNumber,omitempty"`
	ShipType    int       `json:"shipType,omitempty" bson:"shipType,omitempty"`
	Destination string    `json:"destination,omitempty" bson:"destination,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
