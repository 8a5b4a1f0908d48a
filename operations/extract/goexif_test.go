package extract_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cyverse-gis/suas-metadata/operations/extract"
	"github.com/cyverse-gis/suas-metadata/operations/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testdata/gps.jpg carries DateTimeOriginal 2018:06:01 10:00:00, DateTimeDigitized 2018:06:01 10:00:05,
// 32° 13' 48" N, 110° 57' 0" W and an altitude of 75 m below sea level (GPSAltitudeRef 1).
func TestGoexifExtractorGPS(t *testing.T) {

	ctx := context.Background()

	ex, err := extract.NewGoexifExtractor(ctx)
	require.NoError(t, err)

	defer ex.Close()

	path := filepath.Join("testdata", "gps.jpg")

	md, err := ex.Extract(ctx, path)
	require.NoError(t, err)
	require.Len(t, md, 1)
	require.NoError(t, md[0].Err)

	tags := md[0].Tags

	keys := make([]string, 0, len(tags))

	for k := range tags {
		keys = append(keys, k)
	}

	assert.ElementsMatch(t, []string{"CreateDate", "DateTimeOriginal", "GPSLatitude", "GPSLongitude", "GPSAltitude"}, keys)

	assert.Equal(t, "2018:06:01 10:00:05", tags["CreateDate"])
	assert.Equal(t, "2018:06:01 10:00:00", tags["DateTimeOriginal"])
	assert.InDelta(t, 32.23, tags["GPSLatitude"], 1e-9)
	assert.InDelta(t, -110.95, tags["GPSLongitude"], 1e-9)
	assert.InDelta(t, -75.0, tags["GPSAltitude"], 1e-9)

	fields := index.DefaultFields()

	r := index.NewRecord(tags, fields)
	assert.True(t, index.Valid(r, fields))

	assert.Equal(t, "2018:06:01 10:00:05", r[index.CREATE_DATE])
	assert.Equal(t, "2018:06:01 10:00:00", r[index.ORIGINAL_DATE])
	assert.InDelta(t, -75.0, r[index.ALTITUDE], 1e-9)

	location, ok := r[index.LOCATION].([]float64)
	require.True(t, ok)
	require.Len(t, location, 2)

	assert.InDelta(t, -110.95, location[0], 1e-9)
	assert.InDelta(t, 32.23, location[1], 1e-9)
}
