package extract

import (
	"context"
	"fmt"
)

// Metadata is a struct containing the tags extracted from a single file.
type Metadata struct {
	// The path of the file the tags were extracted from.
	Path string
	// A mapping of tag names (for example "GPSLatitude") to their values.
	Tags map[string]any
	// Any error that occurred extracting tags from the file.
	Err error
}

// Extractor is the interface for reading metadata tags from a batch of files.
type Extractor interface {
	// Extract returns one Metadata instance for each path, in the same order as paths.
	Extract(context.Context, ...string) ([]*Metadata, error)
	// Close releases any resources (processes, file handles) held by the Extractor.
	Close() error
}

// ExtractorOptions is a struct containing the options used to create a new Extractor.
type ExtractorOptions struct {
	// The path to the exiftool binary. If empty "exiftool" is resolved from $PATH.
	ExiftoolPath string
	// The maximum number of files to send to exiftool in a single request.
	BatchSize int
}

const (
	EXIFTOOL string = "exiftool"
	GOEXIF   string = "goexif"
)

// NewExtractor returns a new Extractor instance for name, which is one of "exiftool" or "goexif".
func NewExtractor(ctx context.Context, name string, opts *ExtractorOptions) (Extractor, error) {

	if opts == nil {
		opts = &ExtractorOptions{}
	}

	switch name {
	case EXIFTOOL:
		return NewExiftoolExtractor(ctx, opts)
	case GOEXIF:
		return NewGoexifExtractor(ctx)
	default:
		return nil, fmt.Errorf("Unsupported extractor '%s'", name)
	}
}
