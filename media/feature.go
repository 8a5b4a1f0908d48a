package media

import (
	"fmt"

	"github.com/cyverse-gis/suas-metadata/operations/index"
)

// type Coordinates stores a single longitude, latitude coordinate pair.
type Coordinates []float64

// type Geometry stores a GeoJSON geometry dictionary.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates Coordinates `json:"coordinates"`
}

// type Properties stores a GeoJSON properties dictionary.
type Properties map[string]interface{}

// type Feature provides a GeoJSON struct.
type Feature struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Geometry   Geometry   `json:"geometry"`
}

// type FeatureCollection provides a GeoJSON FeatureCollection struct.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// Create a new Point Feature for an index record. The record's location is used as the
// feature's geometry and all its other (non-nil) properties are assigned as feature properties.
func NewRecordFeature(r index.Record) (*Feature, error) {

	coords, ok := r[index.LOCATION].([]float64)

	if !ok || len(coords) != 2 {
		return nil, fmt.Errorf("Record is missing a valid %s property", index.LOCATION)
	}

	geom := Geometry{
		Type:        "Point",
		Coordinates: Coordinates{coords[0], coords[1]},
	}

	props := make(Properties)

	for k, v := range r {

		if k == index.LOCATION || v == nil {
			continue
		}

		props[k] = v
	}

	f := &Feature{
		Type:       "Feature",
		Geometry:   geom,
		Properties: props,
	}

	return f, nil
}

// Create a new FeatureCollection for records. Records without a location are skipped.
func NewRecordFeatureCollection(records []index.Record) *FeatureCollection {

	features := make([]*Feature, 0)

	for _, r := range records {

		f, err := NewRecordFeature(r)

		if err != nil {
			continue
		}

		features = append(features, f)
	}

	fc := &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}

	return fc
}
