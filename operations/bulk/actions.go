package bulk

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cyverse-gis/suas-metadata/operations/index"
	"github.com/tidwall/sjson"
)

const (
	// The default index that drone image records are stored in.
	DEFAULT_INDEX string = "drone"
	// The default document type assigned to bulk actions.
	DEFAULT_TYPE string = "_doc"
)

// Action pairs a bulk "index" operation header with the document it applies to.
type Action struct {
	// The name of the index to store the document in.
	Index string
	// The (optional) document type. Document types are deprecated as of Elasticsearch 7.
	Type string
	// The (optional) document ID. If empty Elasticsearch will assign one.
	ID string
	// The document to index.
	Source index.Record
}

// ActionsOptions is a struct containing options used to derive bulk actions from index records.
type ActionsOptions struct {
	Index string
	Type  string
	// If true, assign each document an ID derived from the SHA-1 fingerprint of the file
	// it was created from. This requires that records have a "path" property.
	IDFromFingerprint bool
	// If true, the "path" property is removed from each document once its ID has been derived.
	// The source records are not modified.
	StripPath bool
}

// NewActions returns an Action for each record in records.
func NewActions(records []index.Record, opts *ActionsOptions) ([]*Action, error) {

	idx := opts.Index

	if idx == "" {
		idx = DEFAULT_INDEX
	}

	actions := make([]*Action, len(records))

	for i, r := range records {

		a := &Action{
			Index:  idx,
			Type:   opts.Type,
			Source: r,
		}

		if opts.IDFromFingerprint {

			path, ok := r[index.PATH].(string)

			if !ok {
				return nil, fmt.Errorf("Record at offset %d is missing a path property", i)
			}

			fp, err := FingerprintFile(path)

			if err != nil {
				return nil, fmt.Errorf("Failed to fingerprint %s, %w", path, err)
			}

			a.ID = fp
		}

		if opts.StripPath {
			a.Source = withoutPath(r)
		}

		actions[i] = a
	}

	return actions, nil
}

// Header returns the JSON-encoded operation header for a.
func (a *Action) Header() ([]byte, error) {

	header := []byte(`{}`)

	updates := []struct {
		path  string
		value string
	}{
		{"index._index", a.Index},
		{"index._type", a.Type},
		{"index._id", a.ID},
	}

	var err error

	for _, u := range updates {

		if u.value == "" {
			continue
		}

		header, err = sjson.SetBytes(header, u.path, u.value)

		if err != nil {
			return nil, fmt.Errorf("Failed to assign %s, %w", u.path, err)
		}
	}

	return header, nil
}

// EncodeActions returns actions as a newline-delimited JSON body suitable for the Elasticsearch bulk API.
// Each action is encoded as a header line followed by a document line.
func EncodeActions(actions []*Action) ([]byte, error) {

	var buf bytes.Buffer

	for i, a := range actions {

		header, err := a.Header()

		if err != nil {
			return nil, fmt.Errorf("Failed to encode header for action %d, %w", i, err)
		}

		doc, err := json.Marshal(a.Source)

		if err != nil {
			return nil, fmt.Errorf("Failed to encode document for action %d, %w", i, err)
		}

		buf.Write(header)
		buf.WriteByte('\n')
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

func withoutPath(r index.Record) index.Record {

	if _, ok := r[index.PATH]; !ok {
		return r
	}

	doc := make(index.Record, len(r))

	for k, v := range r {

		if k != index.PATH {
			doc[k] = v
		}
	}

	return doc
}
