package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cyverse-gis/suas-metadata/operations/extract"
	"github.com/cyverse-gis/suas-metadata/operations/gather"
)

// IndexDirectoryOptions is a struct containing options for indexing a directory.
type IndexDirectoryOptions struct {
	// The extractor used to read metadata tags from files.
	Extractor extract.Extractor
	// The fields to assign to each record. If empty DefaultFields() is used.
	Fields []*Field
	// Options for filtering the files gathered below the directory.
	Gather *gather.GatherOptions
	// Options for additional properties assigned to each record.
	Record *RecordOptions
}

// IndexDirectory gathers all the readable files below root, extracts their metadata in a single
// batched call and returns the valid index records derived from that metadata.
func IndexDirectory(ctx context.Context, root string, opts *IndexDirectoryOptions) ([]Record, error) {

	if opts.Extractor == nil {
		return nil, fmt.Errorf("Missing extractor")
	}

	fields := opts.Fields

	if len(fields) == 0 {
		fields = DefaultFields()
	}

	paths, err := gather.GatherFilesWithOptions(ctx, root, opts.Gather)

	if err != nil {
		return nil, fmt.Errorf("Failed to gather files for %s, %w", root, err)
	}

	logger := slog.Default()
	logger.Debug("Gathered files", "root", root, "count", len(paths))

	md, err := opts.Extractor.Extract(ctx, paths...)

	if err != nil {
		return nil, fmt.Errorf("Failed to extract metadata for %s, %w", root, err)
	}

	records := NewRecords(md, fields, opts.Record)

	logger.Debug("Created index records", "root", root, "files", len(paths), "records", len(records))
	return records, nil
}
