package bulk

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cyverse-gis/suas-metadata/operations/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testRecords() []index.Record {

	return []index.Record{
		{
			index.CREATE_DATE: "2018:06:01 10:00:00",
			index.LOCATION:    []float64{-110.95, 32.23},
		},
		{
			index.CREATE_DATE: nil,
			index.LOCATION:    []float64{-111.0, 33.0},
		},
	}
}

func TestEncodeActions(t *testing.T) {

	actions, err := NewActions(testRecords(), &ActionsOptions{Type: DEFAULT_TYPE})
	require.NoError(t, err)

	body, err := EncodeActions(actions)
	require.NoError(t, err)

	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, `{"index":{"_index":"drone","_type":"_doc"}}`, lines[0])
	assert.JSONEq(t, `{"createDate":"2018:06:01 10:00:00","location":[-110.95,32.23]}`, lines[1])
	assert.Equal(t, lines[0], lines[2])
	assert.JSONEq(t, `{"createDate":null,"location":[-111,33]}`, lines[3])
	assert.Equal(t, "", lines[4])
}

func TestEncodeActionsEmpty(t *testing.T) {

	body, err := EncodeActions(nil)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestHeaderOmitsEmpty(t *testing.T) {

	a := &Action{Index: "images", ID: "abc"}

	header, err := a.Header()
	require.NoError(t, err)

	assert.Equal(t, `{"index":{"_index":"images","_id":"abc"}}`, string(header))
}

func TestNewActionsFingerprint(t *testing.T) {

	path := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	sum := sha1.Sum([]byte("hello"))

	records := []index.Record{
		{index.PATH: path},
	}

	actions, err := NewActions(records, &ActionsOptions{IDFromFingerprint: true})
	require.NoError(t, err)

	assert.Equal(t, DEFAULT_INDEX, actions[0].Index)
	assert.Equal(t, hex.EncodeToString(sum[:]), actions[0].ID)

	_, err = NewActions(testRecords(), &ActionsOptions{IDFromFingerprint: true})
	assert.Error(t, err)
}

func TestNewActionsStripPath(t *testing.T) {

	path := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	records := []index.Record{
		{index.PATH: path, index.LOCATION: []float64{-110.95, 32.23}},
	}

	actions, err := NewActions(records, &ActionsOptions{IDFromFingerprint: true, StripPath: true})
	require.NoError(t, err)

	assert.NotEmpty(t, actions[0].ID)
	assert.NotContains(t, actions[0].Source, index.PATH)
	assert.Contains(t, actions[0].Source, index.LOCATION)

	assert.Equal(t, path, records[0][index.PATH])
}

func TestFingerprintFileMissing(t *testing.T) {

	path := filepath.Join(t.TempDir(), "missing.jpg")

	_, err := FingerprintFile(path)
	require.Error(t, err)

	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), path)
}

func TestParseReport(t *testing.T) {

	body := []byte(`{
		"took": 3,
		"errors": true,
		"items": [
			{"index": {"_id": "1", "status": 201}},
			{"index": {"_id": "2", "status": 400, "error": {"type": "mapper_parsing_exception", "reason": "failed to parse field [location]"}}},
			{"create": {"_id": "3", "status": 200}}
		]
	}`)

	report, err := ParseReport(body)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "failed to parse field [location]")

	_, err = ParseReport([]byte(`not json`))
	assert.Error(t, err)
}

// newServer returns a test server that passes the go-elasticsearch product check and
// dispatches everything else to h.
func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {

	t.Helper()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodGet && r.URL.Path == "/" {
			io.WriteString(w, `{"name":"test","cluster_name":"test","version":{"number":"7.17.0","build_flavor":"default"},"tagline":"You Know, for Search"}`)
			return
		}

		h(w, r)
	}))

	t.Cleanup(s.Close)
	return s
}

func TestClientUploadActions(t *testing.T) {

	var received []byte
	mu := new(sync.Mutex)

	s := newServer(t, func(w http.ResponseWriter, r *http.Request) {

		if r.URL.Path != "/_bulk" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		mu.Lock()
		received, _ = io.ReadAll(r.Body)
		mu.Unlock()

		io.WriteString(w, `{"errors":true,"items":[{"index":{"_id":"a","status":201}},{"index":{"_id":"b","status":400,"error":{"reason":"bad"}}}]}`)
	})

	c, err := NewClient(&ClientOptions{Addresses: []string{s.URL}})
	require.NoError(t, err)

	actions, err := NewActions(testRecords(), &ActionsOptions{})
	require.NoError(t, err)

	report, err := c.UploadActions(context.Background(), actions)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 1, report.Failed)

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, 4, strings.Count(string(received), "\n"))
	assert.Equal(t, "drone", gjson.Get(strings.Split(string(received), "\n")[0], "index._index").String())
}

func TestClientUploadEmpty(t *testing.T) {

	c, err := NewClient(&ClientOptions{Addresses: []string{"http://127.0.0.1:1"}})
	require.NoError(t, err)

	report, err := c.Upload(context.Background(), []byte("\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Attempted)
}

func TestClientUploadServerError(t *testing.T) {

	s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"reason":"cluster on fire"},"status":500}`)
	})

	c, err := NewClient(&ClientOptions{Addresses: []string{s.URL}})
	require.NoError(t, err)

	_, err = c.Upload(context.Background(), []byte(`{"index":{}}`+"\n"+`{}`+"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster on fire")
}

func TestClientPing(t *testing.T) {

	ok := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c, err := NewClient(&ClientOptions{Addresses: []string{ok.URL}})
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))

	broken := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, err = NewClient(&ClientOptions{Addresses: []string{broken.URL}})
	require.NoError(t, err)
	assert.Error(t, c.Ping(context.Background()))
}

func TestClientIndex(t *testing.T) {

	path_ch := make(chan string, 1)

	s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		path_ch <- r.URL.Path
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"_id":"abc","result":"created"}`)
	})

	c, err := NewClient(&ClientOptions{Addresses: []string{s.URL}})
	require.NoError(t, err)

	a := &Action{
		Index:  "drone",
		ID:     "abc",
		Source: testRecords()[0],
	}

	require.NoError(t, c.Index(context.Background(), a))
	assert.Equal(t, "/drone/_doc/abc", <-path_ch)
}

func TestNewClientOptions(t *testing.T) {

	t.Setenv("ELASTICSEARCH_URL", "http://es1:9200, http://es2:9200")
	t.Setenv("ELASTICSEARCH_USERNAME", "elastic")
	t.Setenv("ELASTICSEARCH_PASSWORD", "secret")

	opts := NewClientOptions("", "", "")
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, opts.Addresses)
	assert.Equal(t, "elastic", opts.Username)
	assert.Equal(t, "secret", opts.Password)

	opts = NewClientOptions("http://localhost:9200", "bob", "")
	assert.Equal(t, []string{"http://localhost:9200"}, opts.Addresses)
	assert.Equal(t, "bob", opts.Username)
	assert.Equal(t, "secret", opts.Password)
}
