package index

// ValueFunc derives the value for an index field from the raw tags of a file. The second
// return value is false if the value is absent.
type ValueFunc func(map[string]any) (any, bool)

// Field maps a metadata tag to a named field in an index record.
type Field struct {
	// The name of the metadata tag the field is read from.
	Tag string
	// The name of the field in the index record.
	Name string
	// If true records missing this field are dropped.
	Required bool
	// An optional function for deriving the field's value. If nil the value of Tag is copied verbatim.
	Value ValueFunc
}

// Lookup returns the value for f derived from tags.
func (f *Field) Lookup(tags map[string]any) (any, bool) {

	if f.Value != nil {
		return f.Value(tags)
	}

	v, ok := tags[f.Tag]

	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

const (
	CREATE_DATE   string = "createDate"
	ORIGINAL_DATE string = "originalDate"
	ALTITUDE      string = "altitude"
	LOCATION      string = "location"
	UPLOAD_DATE   string = "uploadDate"
	PATH          string = "path"
)

// DefaultFields returns the fields indexed for drone imagery. A location, built from
// GPSLatitude and GPSLongitude, is required.
func DefaultFields() []*Field {

	fields := []*Field{
		&Field{
			Tag:   "CreateDate",
			Name:  CREATE_DATE,
			Value: dateValue("CreateDate"),
		},
		&Field{
			Tag:   "DateTimeOriginal",
			Name:  ORIGINAL_DATE,
			Value: dateValue("DateTimeOriginal"),
		},
		&Field{
			Tag:   "GPSAltitude",
			Name:  ALTITUDE,
			Value: altitudeValue("GPSAltitude"),
		},
		&Field{
			Tag:      "GPSLatitude",
			Name:     LOCATION,
			Required: true,
			Value:    locationValue("GPSLatitude", "GPSLongitude"),
		},
	}

	return fields
}

func dateValue(tag string) ValueFunc {

	return func(tags map[string]any) (any, bool) {

		v, ok := tags[tag]

		if !ok || v == nil {
			return nil, false
		}

		return NormalizeDate(v)
	}
}

func altitudeValue(tag string) ValueFunc {

	return func(tags map[string]any) (any, bool) {

		v, ok := tags[tag]

		if !ok || v == nil {
			return nil, false
		}

		alt, err := ParseAltitude(v)

		if err != nil {
			return nil, false
		}

		return alt, true
	}
}

// locationValue returns a ValueFunc producing a [longitude, latitude] pair, the array
// order Elasticsearch expects for a geo_point.
func locationValue(lat_tag string, lon_tag string) ValueFunc {

	return func(tags map[string]any) (any, bool) {

		raw_lat, lat_ok := tags[lat_tag]
		raw_lon, lon_ok := tags[lon_tag]

		if !lat_ok || !lon_ok || raw_lat == nil || raw_lon == nil {
			return nil, false
		}

		lat, err := ParseCoordinate(raw_lat, tags[lat_tag+"Ref"])

		if err != nil {
			return nil, false
		}

		lon, err := ParseCoordinate(raw_lon, tags[lon_tag+"Ref"])

		if err != nil {
			return nil, false
		}

		return []float64{lon, lat}, true
	}
}
