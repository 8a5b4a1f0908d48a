package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/cyverse-gis/suas-metadata/media"
	"github.com/cyverse-gis/suas-metadata/operations/bulk"
	"github.com/cyverse-gis/suas-metadata/operations/index"
	"github.com/whosonfirst/go-ioutil"
	"github.com/whosonfirst/go-reader/v2"
	"github.com/whosonfirst/go-writer/v3"
)

const (
	NDJSON  string = "ndjson"
	JSON    string = "json"
	TEXT    string = "text"
	GEOJSON string = "geojson"
)

// Formats returns the list of supported output formats.
func Formats() []string {
	return []string{NDJSON, JSON, TEXT, GEOJSON}
}

// DefaultKey returns the default filename for format.
func DefaultKey(format string) string {

	switch format {
	case NDJSON:
		return "insert.txt"
	case TEXT:
		return "index.txt"
	case GEOJSON:
		return "index.geojson"
	default:
		return "index.json"
	}
}

// Encode returns records encoded as format. The NDJSON format produces a body for the
// Elasticsearch bulk API using bulk_opts.
func Encode(records []index.Record, format string, bulk_opts *bulk.ActionsOptions) ([]byte, error) {

	switch format {
	case NDJSON:

		if bulk_opts == nil {
			bulk_opts = &bulk.ActionsOptions{}
		}

		actions, err := bulk.NewActions(records, bulk_opts)

		if err != nil {
			return nil, fmt.Errorf("Failed to derive bulk actions, %w", err)
		}

		return bulk.EncodeActions(actions)

	case JSON:

		if records == nil {
			records = make([]index.Record, 0)
		}

		return json.Marshal(records)

	case TEXT:
		return encodeText(records), nil

	case GEOJSON:
		fc := media.NewRecordFeatureCollection(records)
		return json.Marshal(fc)

	default:
		return nil, fmt.Errorf("Unsupported format '%s'", format)
	}
}

// encodeText returns one block of "key: value" lines per record, separated by blank lines.
func encodeText(records []index.Record) []byte {

	var buf bytes.Buffer

	for i, r := range records {

		if i > 0 {
			buf.WriteString("\n")
		}

		keys := make([]string, 0, len(r))

		for k := range r {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {

			v := r[k]

			if v == nil {
				fmt.Fprintf(&buf, "%s:\n", k)
				continue
			}

			fmt.Fprintf(&buf, "%s: %v\n", k, v)
		}
	}

	return buf.Bytes()
}

// Write writes body to key using wr.
func Write(ctx context.Context, wr writer.Writer, key string, body []byte) error {

	fh, err := ioutil.NewReadSeekCloser(bytes.NewReader(body))

	if err != nil {
		return fmt.Errorf("Failed to create ReadSeekCloser for %s, %w", key, err)
	}

	defer fh.Close()

	_, err = wr.Write(ctx, key, fh)

	if err != nil {
		return fmt.Errorf("Failed to write %s, %w", key, err)
	}

	return nil
}

// Read returns the body of key using r.
func Read(ctx context.Context, r reader.Reader, key string) ([]byte, error) {

	fh, err := r.Read(ctx, key)

	if err != nil {
		return nil, fmt.Errorf("Failed to open %s, %w", key, err)
	}

	defer fh.Close()

	body, err := io.ReadAll(fh)

	if err != nil {
		return nil, fmt.Errorf("Failed to read %s, %w", key, err)
	}

	return body, nil
}
