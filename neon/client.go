// Package neon provides a thin client for the National Ecological Observatory Network (NEON) data API.
package neon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// The default base URL for the NEON data API.
const DEFAULT_BASE_URL string = "http://data.neonscience.org/api/v0"

// Client performs requests against the NEON data API. All responses are returned as JSON-encoded bytes.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// ClientOption is a function for configuring a Client.
type ClientOption func(*Client)

// WithBaseURL assigns the base URL that API paths are appended to.
func WithBaseURL(base_url string) ClientOption {
	return func(c *Client) {
		c.BaseURL = strings.TrimRight(base_url, "/")
	}
}

// WithHTTPClient assigns the http.Client used to perform requests.
func WithHTTPClient(http_client *http.Client) ClientOption {
	return func(c *Client) {
		c.HTTPClient = http_client
	}
}

// NewClient returns a new Client instance.
func NewClient(opts ...ClientOption) *Client {

	c := &Client{
		BaseURL:    DEFAULT_BASE_URL,
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get performs a GET request for path (and an optional raw query string) and returns the response body.
func (c *Client) Get(ctx context.Context, path string, query string) ([]byte, error) {

	uri := c.BaseURL + path

	if query != "" {
		uri = uri + "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)

	if err != nil {
		return nil, fmt.Errorf("Failed to create request for %s, %w", uri, err)
	}

	req.Header.Set("Accept", "application/json")

	rsp, err := c.HTTPClient.Do(req)

	if err != nil {
		return nil, fmt.Errorf("Failed to execute request for %s, %w", uri, err)
	}

	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)

	if err != nil {
		return nil, fmt.Errorf("Failed to read response for %s, %w", uri, err)
	}

	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		return nil, fmt.Errorf("Request for %s failed with status %s", uri, rsp.Status)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("Response for %s is not valid JSON", uri)
	}

	return body, nil
}

// codes returns the sorted, unique values of key for each element of the response's "data" list.
// An absent "data" property yields an empty list.
func (c *Client) codes(ctx context.Context, path string, key string) ([]string, error) {

	body, err := c.Get(ctx, path, "")

	if err != nil {
		return nil, err
	}

	codes := make([]string, 0)
	seen := make(map[string]bool)

	data := gjson.GetBytes(body, "data")

	if !data.Exists() {
		return codes, nil
	}

	data.ForEach(func(_, item gjson.Result) bool {

		v := item.Get(key)

		if !v.Exists() {
			return true
		}

		code := v.String()

		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}

		return true
	})

	sort.Strings(codes)
	return codes, nil
}

// ProductCodes returns the codes of all the data products.
func (c *Client) ProductCodes(ctx context.Context) ([]string, error) {
	return c.codes(ctx, "/products", "productCode")
}

// Product returns the record for a single data product.
func (c *Client) Product(ctx context.Context, product_code string) ([]byte, error) {
	return c.Get(ctx, "/products/"+url.PathEscape(product_code), "")
}

// SiteCodes returns the codes of all the field sites.
func (c *Client) SiteCodes(ctx context.Context) ([]string, error) {
	return c.codes(ctx, "/sites", "siteCode")
}

// Site returns the record for a single field site.
func (c *Client) Site(ctx context.Context, site_code string) ([]byte, error) {
	return c.Get(ctx, "/sites/"+url.PathEscape(site_code), "")
}

// LocationNames returns the names of all the site locations.
func (c *Client) LocationNames(ctx context.Context) ([]string, error) {
	return c.codes(ctx, "/locations/sites", "locationName")
}

// Location returns the record for a single named location.
func (c *Client) Location(ctx context.Context, location_name string) ([]byte, error) {
	return c.Get(ctx, "/locations/"+url.PathEscape(location_name), "")
}

// Data returns the available data files for a product, at a site, for a month (formatted as "YYYY-MM").
// If file_name is not empty the record for that file alone is returned.
func (c *Client) Data(ctx context.Context, product_code string, site_code string, year_month string, file_name string) ([]byte, error) {

	parts := []string{
		"data",
		url.PathEscape(product_code),
		url.PathEscape(site_code),
		url.PathEscape(year_month),
	}

	if file_name != "" {
		parts = append(parts, url.PathEscape(file_name))
	}

	return c.Get(ctx, "/"+strings.Join(parts, "/"), "")
}
