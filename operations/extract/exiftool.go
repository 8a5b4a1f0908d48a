package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/barasher/go-exiftool"
)

// The default number of files sent to exiftool in a single request.
const DEFAULT_BATCH_SIZE int = 256

type exiftoolProcess interface {
	ExtractMetadata(...string) []exiftool.FileMetadata
	Close() error
}

// ExiftoolExtractor implements the Extractor interface using a single, long-running
// `exiftool -stay_open` process.
type ExiftoolExtractor struct {
	Extractor
	process    exiftoolProcess
	batch_size int
}

// NewExiftoolExtractor starts a new exiftool process and returns an ExiftoolExtractor that uses it.
// Values are reported without print conversion so that coordinates and altitudes are numeric.
func NewExiftoolExtractor(ctx context.Context, opts *ExtractorOptions) (*ExiftoolExtractor, error) {

	et_opts := []func(*exiftool.Exiftool) error{
		exiftool.NoPrintConversion(),
	}

	if opts.ExiftoolPath != "" {
		et_opts = append(et_opts, exiftool.SetExiftoolBinaryPath(opts.ExiftoolPath))
	}

	et, err := exiftool.NewExiftool(et_opts...)

	if err != nil {
		return nil, fmt.Errorf("Failed to start exiftool, %w", err)
	}

	return newExiftoolExtractorWithProcess(et, opts.BatchSize), nil
}

func newExiftoolExtractorWithProcess(p exiftoolProcess, batch_size int) *ExiftoolExtractor {

	if batch_size <= 0 {
		batch_size = DEFAULT_BATCH_SIZE
	}

	e := &ExiftoolExtractor{
		process:    p,
		batch_size: batch_size,
	}

	return e
}

// Extract sends paths to exiftool, in batches, and returns the tags for each file. Per-file
// failures are reported in the Err property of the corresponding Metadata instance.
func (e *ExiftoolExtractor) Extract(ctx context.Context, paths ...string) ([]*Metadata, error) {

	results := make([]*Metadata, 0, len(paths))

	// exiftool fails when it is handed an empty list of files
	if len(paths) == 0 {
		return results, nil
	}

	logger := slog.Default()

	for start := 0; start < len(paths); start += e.batch_size {

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			// pass
		}

		end := start + e.batch_size

		if end > len(paths) {
			end = len(paths)
		}

		batch := paths[start:end]

		logger.Debug("Extract metadata", "count", len(batch), "offset", start)

		file_infos := e.process.ExtractMetadata(batch...)

		if len(file_infos) != len(batch) {
			return nil, fmt.Errorf("Unexpected number of results from exiftool, expected %d but got %d", len(batch), len(file_infos))
		}

		for i, fi := range file_infos {

			md := &Metadata{
				Path: batch[i],
				Tags: fi.Fields,
				Err:  fi.Err,
			}

			if md.Tags == nil {
				md.Tags = make(map[string]any)
			}

			if md.Err != nil {
				logger.Debug("Failed to extract metadata", "path", md.Path, "error", md.Err)
			}

			results = append(results, md)
		}
	}

	return results, nil
}

// Close terminates the underlying exiftool process.
func (e *ExiftoolExtractor) Close() error {
	return e.process.Close()
}
