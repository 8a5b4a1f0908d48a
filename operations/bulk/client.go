package bulk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cyverse-gis/suas-metadata/common"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/tidwall/gjson"
)

// ClientOptions is a struct containing the details for connecting to an Elasticsearch cluster.
type ClientOptions struct {
	// One or more Elasticsearch URLs. If empty the ELASTICSEARCH_URL environment variable, or http://localhost:9200, is used.
	Addresses []string
	Username  string
	Password  string
}

// NewClientOptions returns a ClientOptions instance for es_url (a comma-separated list of addresses),
// username and password. Empty values are read from the ELASTICSEARCH_URL, ELASTICSEARCH_USERNAME
// and ELASTICSEARCH_PASSWORD environment variables.
func NewClientOptions(es_url string, username string, password string) *ClientOptions {

	if es_url == "" {
		es_url = common.Getenv("ELASTICSEARCH_URL", "")
	}

	opts := &ClientOptions{
		Username: username,
		Password: password,
	}

	if opts.Username == "" {
		opts.Username = common.Getenv("ELASTICSEARCH_USERNAME", "")
	}

	if opts.Password == "" {
		opts.Password = common.Getenv("ELASTICSEARCH_PASSWORD", "")
	}

	for _, addr := range strings.Split(es_url, ",") {

		addr = strings.TrimSpace(addr)

		if addr != "" {
			opts.Addresses = append(opts.Addresses, addr)
		}
	}

	return opts
}

// Client is a thin wrapper around an elastic/go-elasticsearch client for indexing records.
type Client struct {
	es *elasticsearch.Client
}

// Report is a struct summarizing the results of a bulk upload.
type Report struct {
	Attempted  int
	Successful int
	Failed     int
	// The error messages for each failed action.
	Errors []string
}

// NewClient returns a new Client instance.
func NewClient(opts *ClientOptions) (*Client, error) {

	cfg := elasticsearch.Config{
		Addresses: opts.Addresses,
		Username:  opts.Username,
		Password:  opts.Password,
	}

	es, err := elasticsearch.NewClient(cfg)

	if err != nil {
		return nil, fmt.Errorf("Failed to create Elasticsearch client, %w", err)
	}

	c := &Client{
		es: es,
	}

	return c, nil
}

// Ping returns an error if the Elasticsearch cluster can not be reached.
func (c *Client) Ping(ctx context.Context) error {

	rsp, err := c.es.Ping(c.es.Ping.WithContext(ctx))

	if err != nil {
		return fmt.Errorf("Failed to ping Elasticsearch, %w", err)
	}

	defer rsp.Body.Close()

	if rsp.IsError() {
		return fmt.Errorf("Elasticsearch ping failed with status %d", rsp.StatusCode)
	}

	return nil
}

// UploadActions encodes actions and sends them to the Elasticsearch bulk API.
func (c *Client) UploadActions(ctx context.Context, actions []*Action) (*Report, error) {

	body, err := EncodeActions(actions)

	if err != nil {
		return nil, err
	}

	return c.Upload(ctx, body)
}

// Upload sends a newline-delimited JSON body to the Elasticsearch bulk API and returns a report
// of the successful and failed actions.
func (c *Client) Upload(ctx context.Context, body []byte) (*Report, error) {

	if len(bytes.TrimSpace(body)) == 0 {
		return &Report{}, nil
	}

	rsp, err := c.es.Bulk(bytes.NewReader(body), c.es.Bulk.WithContext(ctx))

	if err != nil {
		return nil, fmt.Errorf("Failed to execute bulk request, %w", err)
	}

	defer rsp.Body.Close()

	rsp_body, err := readResponse(rsp)

	if err != nil {
		return nil, fmt.Errorf("Bulk request failed, %w", err)
	}

	report, err := ParseReport(rsp_body)

	if err != nil {
		return nil, err
	}

	slog.Default().Debug("Bulk upload complete", "attempted", report.Attempted, "successful", report.Successful, "failed", report.Failed)
	return report, nil
}

// Index stores a single action's document.
func (c *Client) Index(ctx context.Context, a *Action) error {

	doc, err := json.Marshal(a.Source)

	if err != nil {
		return fmt.Errorf("Failed to encode document, %w", err)
	}

	opts := []func(*esapi.IndexRequest){
		c.es.Index.WithContext(ctx),
	}

	if a.Type != "" {
		opts = append(opts, c.es.Index.WithDocumentType(a.Type))
	}

	if a.ID != "" {
		opts = append(opts, c.es.Index.WithDocumentID(a.ID))
	}

	rsp, err := c.es.Index(a.Index, bytes.NewReader(doc), opts...)

	if err != nil {
		return fmt.Errorf("Failed to execute index request, %w", err)
	}

	defer rsp.Body.Close()

	_, err = readResponse(rsp)

	if err != nil {
		return fmt.Errorf("Index request failed, %w", err)
	}

	return nil
}

func readResponse(rsp *esapi.Response) ([]byte, error) {

	body, err := io.ReadAll(rsp.Body)

	if err != nil {
		return nil, fmt.Errorf("Failed to read response, %w", err)
	}

	if rsp.IsError() {

		reason := gjson.GetBytes(body, "error.reason").String()

		if reason == "" {
			reason = string(body)
		}

		return nil, fmt.Errorf("%d %s", rsp.StatusCode, reason)
	}

	return body, nil
}

// ParseReport derives a Report from the body of an Elasticsearch bulk API response.
func ParseReport(body []byte) (*Report, error) {

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("Invalid bulk response")
	}

	report := &Report{
		Errors: make([]string, 0),
	}

	items := gjson.GetBytes(body, "items")

	items.ForEach(func(_, item gjson.Result) bool {

		// each item has a single key naming its operation
		item.ForEach(func(op, rsp gjson.Result) bool {

			report.Attempted += 1

			status := rsp.Get("status").Int()

			if status >= 200 && status < 300 {
				report.Successful += 1
				return false
			}

			report.Failed += 1

			reason := rsp.Get("error.reason").String()

			if reason == "" {
				reason = rsp.Get("error").Raw
			}

			msg := fmt.Sprintf("%s %s (%d): %s", op.String(), rsp.Get("_id").String(), status, reason)
			report.Errors = append(report.Errors, msg)

			return false
		})

		return true
	})

	return report, nil
}
