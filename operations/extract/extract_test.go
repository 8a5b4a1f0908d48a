package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/barasher/go-exiftool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	batches [][]string
	closed  bool
}

func (p *fakeProcess) ExtractMetadata(files ...string) []exiftool.FileMetadata {

	p.batches = append(p.batches, files)

	results := make([]exiftool.FileMetadata, len(files))

	for i, f := range files {

		results[i] = exiftool.FileMetadata{
			File: f,
		}

		if filepath.Ext(f) == ".bad" {
			results[i].Err = errors.New("unsupported")
			continue
		}

		results[i].Fields = map[string]interface{}{
			"SourceFile":  f,
			"GPSAltitude": 12.5,
		}
	}

	return results
}

func (p *fakeProcess) Close() error {
	p.closed = true
	return nil
}

func TestExiftoolExtractorBatches(t *testing.T) {

	p := &fakeProcess{}
	e := newExiftoolExtractorWithProcess(p, 2)

	paths := []string{"a.jpg", "b.jpg", "c.bad", "d.jpg", "e.jpg"}

	results, err := e.Extract(context.Background(), paths...)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	assert.Len(t, p.batches, 3)
	assert.Equal(t, []string{"e.jpg"}, p.batches[2])

	for i, md := range results {
		assert.Equal(t, paths[i], md.Path)
	}

	assert.Equal(t, 12.5, results[0].Tags["GPSAltitude"])

	assert.Error(t, results[2].Err)
	assert.NotNil(t, results[2].Tags)
	assert.Empty(t, results[2].Tags)

	require.NoError(t, e.Close())
	assert.True(t, p.closed)
}

func TestExiftoolExtractorEmpty(t *testing.T) {

	p := &fakeProcess{}
	e := newExiftoolExtractorWithProcess(p, 0)

	results, err := e.Extract(context.Background())
	require.NoError(t, err)

	assert.Empty(t, results)
	assert.Empty(t, p.batches)
	assert.Equal(t, DEFAULT_BATCH_SIZE, e.batch_size)
}

func TestExiftoolExtractorCancelled(t *testing.T) {

	e := newExiftoolExtractorWithProcess(&fakeProcess{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, "a.jpg")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGoexifExtractor(t *testing.T) {

	ctx := context.Background()
	root := t.TempDir()

	plain := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte("not an image"), 0644))

	missing := filepath.Join(root, "missing.jpg")

	e, err := NewExtractor(ctx, GOEXIF, nil)
	require.NoError(t, err)

	defer e.Close()

	results, err := e.Extract(ctx, plain, missing)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, plain, results[0].Path)
	assert.NoError(t, results[0].Err)
	assert.Empty(t, results[0].Tags)

	assert.Equal(t, missing, results[1].Path)
	assert.ErrorIs(t, results[1].Err, os.ErrNotExist)
}

func TestNewExtractorUnknown(t *testing.T) {

	_, err := NewExtractor(context.Background(), "pillow", nil)
	assert.Error(t, err)
}
