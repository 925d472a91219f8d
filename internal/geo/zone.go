// Package geo provides named-zone containment checks. The point-in-polygon
// evaluation itself is consumed from the orb geometry library; this package
// only adapts GeoJSON zone documents into a narrow Contains capability.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var (
	ErrEmptyFeatureCollection = errors.New("geo: feature collection has no features")
	ErrNotPolygonal           = errors.New("geo: geometry is not a polygon or multipolygon")
)

// Zone answers whether a geographic point lies inside a named region.
type Zone interface {
	ID() string
	Contains(lat, lon float64) bool
}

type polygonZone struct {
	id   string
	geom orb.Geometry
}

func (z *polygonZone) ID() string { return z.id }

func (z *polygonZone) Contains(lat, lon float64) bool {
	p := orb.Point{lon, lat}
	switch g := z.geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	}
	return false
}

// FromGeoJSON builds a Zone from a GeoJSON document. Geometry, Feature and
// FeatureCollection payloads are accepted; for a collection the first feature
// carries the zone geometry, matching how zone files are authored.
func FromGeoJSON(id string, data []byte) (Zone, error) {
	geom, err := decodeGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("zone %s: %w", id, err)
	}

	switch geom.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return &polygonZone{id: id, geom: geom}, nil
	}
	return nil, fmt.Errorf("zone %s: %w", id, ErrNotPolygonal)
}

func decodeGeometry(data []byte) (orb.Geometry, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		if len(fc.Features) == 0 {
			return nil, ErrEmptyFeatureCollection
		}
		return fc.Features[0].Geometry, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return f.Geometry, nil
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		return g.Geometry(), nil
	}
}
