package index

import (
	"log/slog"
	"time"

	"github.com/cyverse-gis/suas-metadata/operations/extract"
)

// Record is a flattened index document containing only the renamed fields of interest.
type Record map[string]any

// RecordOptions is a struct containing options for additional properties assigned to new records.
type RecordOptions struct {
	// If non-zero, assign this time as the "uploadDate" property of each record.
	UploadDate time.Time
	// If true, assign the path of the source file as the "path" property of each record.
	IncludePath bool
}

// NewRecord returns a new Record with a property for each field in fields. Fields whose values
// are absent in tags are assigned nil.
func NewRecord(tags map[string]any, fields []*Field) Record {

	r := make(Record)

	for _, f := range fields {

		v, ok := f.Lookup(tags)

		if !ok {
			// a second field may already have assigned this name
			if _, exists := r[f.Name]; !exists {
				r[f.Name] = nil
			}

			continue
		}

		r[f.Name] = v
	}

	return r
}

// Valid returns false if r is missing any of the required fields, or if every field in r is nil.
func Valid(r Record, fields []*Field) bool {

	for _, f := range fields {

		if f.Required && r[f.Name] == nil {
			return false
		}
	}

	for _, f := range fields {

		if r[f.Name] != nil {
			return true
		}
	}

	return false
}

// NewRecords returns the valid records derived from md. Metadata that failed to be extracted is skipped.
func NewRecords(md []*extract.Metadata, fields []*Field, opts *RecordOptions) []Record {

	if opts == nil {
		opts = &RecordOptions{}
	}

	logger := slog.Default()

	upload_date := ""

	if !opts.UploadDate.IsZero() {
		upload_date = opts.UploadDate.Format(EXIF_DATE_FORMAT)
	}

	records := make([]Record, 0)

	for _, m := range md {

		if m.Err != nil {
			logger.Debug("Skipping file with extraction error", "path", m.Path, "error", m.Err)
			continue
		}

		r := NewRecord(m.Tags, fields)

		if !Valid(r, fields) {
			logger.Debug("Skipping file missing required fields", "path", m.Path)
			continue
		}

		if upload_date != "" {
			r[UPLOAD_DATE] = upload_date
		}

		if opts.IncludePath {
			r[PATH] = m.Path
		}

		records = append(records, r)
	}

	return records
}
