package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

var register_parsers sync.Once

// The goexif fields to read mapped to their exiftool tag names.
var goexif_date_fields = map[string]exif.FieldName{
	"CreateDate":       exif.DateTimeDigitized,
	"DateTimeOriginal": exif.DateTimeOriginal,
}

// GoexifExtractor implements the Extractor interface by decoding EXIF data in-process using
// the rwcarlsen/goexif package. Tags are reported using the same names as exiftool.
type GoexifExtractor struct {
	Extractor
}

// NewGoexifExtractor returns a new GoexifExtractor instance.
func NewGoexifExtractor(ctx context.Context) (*GoexifExtractor, error) {

	register_parsers.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})

	e := &GoexifExtractor{}
	return e, nil
}

// Extract decodes the EXIF data for each path. Files that do not contain EXIF data are
// returned with an empty set of tags.
func (e *GoexifExtractor) Extract(ctx context.Context, paths ...string) ([]*Metadata, error) {

	results := make([]*Metadata, len(paths))

	for i, path := range paths {

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			// pass
		}

		results[i] = e.extractFile(path)
	}

	return results, nil
}

func (e *GoexifExtractor) extractFile(path string) *Metadata {

	md := &Metadata{
		Path: path,
		Tags: make(map[string]any),
	}

	fh, err := os.Open(path)

	if err != nil {
		md.Err = fmt.Errorf("Failed to open %s, %w", path, err)
		return md
	}

	defer fh.Close()

	x, err := exif.Decode(fh)

	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return md
	}

	for name, field := range goexif_date_fields {

		tag, err := x.Get(field)

		if err != nil {
			continue
		}

		str_dt, err := tag.StringVal()

		if err != nil {
			continue
		}

		md.Tags[name] = strings.TrimRight(str_dt, "\x00")
	}

	lat, lon, err := x.LatLong()

	if err == nil {
		md.Tags["GPSLatitude"] = lat
		md.Tags["GPSLongitude"] = lon
	}

	alt, ok := altitude(x)

	if ok {
		md.Tags["GPSAltitude"] = alt
	}

	return md
}

func altitude(x *exif.Exif) (float64, bool) {

	tag, err := x.Get(exif.GPSAltitude)

	if err != nil {
		return 0.0, false
	}

	r, err := tag.Rat(0)

	if err != nil {
		return 0.0, false
	}

	alt, _ := r.Float64()

	// 1 is below sea level
	ref_tag, err := x.Get(exif.GPSAltitudeRef)

	if err == nil {

		ref, err := ref_tag.Int(0)

		if err == nil && ref == 1 {
			alt = -alt
		}
	}

	return alt, true
}

// Close is a no-op for GoexifExtractor.
func (e *GoexifExtractor) Close() error {
	return nil
}
