package common

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURI(t *testing.T) {

	uri, err := ResolveURI("stdout://")
	require.NoError(t, err)
	assert.Equal(t, "stdout://", uri)

	root := t.TempDir()

	uri, err = ResolveURI(root)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("fs://%s", filepath.ToSlash(root)), uri)
}

func TestNewWriterCached(t *testing.T) {

	ctx := context.Background()
	root := t.TempDir()

	wr, err := NewWriter(ctx, root)
	require.NoError(t, err)

	again, err := NewWriter(ctx, fmt.Sprintf("fs://%s", filepath.ToSlash(root)))
	require.NoError(t, err)

	assert.Same(t, wr, again)

	_, err = NewWriter(ctx, "bogus-scheme://")
	assert.Error(t, err)
}

func TestNewReaderCached(t *testing.T) {

	ctx := context.Background()
	root := t.TempDir()

	r, err := NewReader(ctx, root)
	require.NoError(t, err)

	again, err := NewReader(ctx, root)
	require.NoError(t, err)

	assert.Same(t, r, again)
}

func TestSetupLogging(t *testing.T) {

	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer

	logger := SetupLoggingWithWriter(&buf, false)
	logger.Debug("hidden")
	logger.Info("shown", "count", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "count=2")

	buf.Reset()

	SetupLoggingWithWriter(&buf, true)
	slog.Debug("verbose")
	assert.Contains(t, buf.String(), "verbose")
}

func TestLoadEnv(t *testing.T) {

	path := filepath.Join(t.TempDir(), ".env")

	err := os.WriteFile(path, []byte("SUAS_TEST_ES_URL=http://es.example.com:9200\n"), 0644)
	require.NoError(t, err)

	t.Cleanup(func() {
		os.Unsetenv("SUAS_TEST_ES_URL")
	})

	require.NoError(t, LoadEnv(path, true))
	assert.Equal(t, "http://es.example.com:9200", Getenv("SUAS_TEST_ES_URL", "fallback"))

	assert.Equal(t, "fallback", Getenv("SUAS_TEST_UNSET", "fallback"))

	missing := filepath.Join(t.TempDir(), "missing.env")

	assert.NoError(t, LoadEnv(missing, false))
	assert.Error(t, LoadEnv(missing, true))
	assert.NoError(t, LoadEnv("", true))
}
