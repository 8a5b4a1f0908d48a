package common

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/whosonfirst/go-reader/v2"
	"github.com/whosonfirst/go-writer/v3"
)

type instances[T any] struct {
	mu    sync.Mutex
	cache map[string]T
}

func (i *instances[T]) load(ctx context.Context, uri string, create func(context.Context, string) (T, error)) (T, error) {

	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.cache[uri]

	if ok {
		return v, nil
	}

	v, err := create(ctx, uri)

	if err != nil {
		return v, err
	}

	if i.cache == nil {
		i.cache = make(map[string]T)
	}

	i.cache[uri] = v
	return v, nil
}

var readers = new(instances[reader.Reader])
var writers = new(instances[writer.Writer])

// ResolveURI returns uri unchanged if it has a scheme, otherwise it is treated as a local
// directory and an absolute "fs://" URI is returned.
func ResolveURI(uri string) (string, error) {

	u, err := url.Parse(uri)

	// single letter schemes are Windows drive letters
	if err == nil && len(u.Scheme) > 1 {
		return uri, nil
	}

	abs_path, err := filepath.Abs(uri)

	if err != nil {
		return "", fmt.Errorf("Failed to derive absolute path for '%s', %w", uri, err)
	}

	return fmt.Sprintf("fs://%s", filepath.ToSlash(abs_path)), nil
}

// NewReader returns a whosonfirst/go-reader.Reader instance for uri. Instances are cached in
// memory for repeat lookups.
func NewReader(ctx context.Context, uri string) (reader.Reader, error) {

	uri, err := ResolveURI(uri)

	if err != nil {
		return nil, err
	}

	r, err := readers.load(ctx, uri, reader.NewReader)

	if err != nil {
		return nil, fmt.Errorf("Failed to create reader for '%s', %w", uri, err)
	}

	return r, nil
}

// NewWriter returns a whosonfirst/go-writer.Writer instance for uri. Instances are cached in
// memory for repeat lookups.
func NewWriter(ctx context.Context, uri string) (writer.Writer, error) {

	uri, err := ResolveURI(uri)

	if err != nil {
		return nil, err
	}

	wr, err := writers.load(ctx, uri, writer.NewWriter)

	if err != nil {
		return nil, fmt.Errorf("Failed to create writer for '%s', %w", uri, err)
	}

	return wr, nil
}
