package neon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// TaxonTypeCode is an enumerated category of organisms used to filter taxonomy queries.
type TaxonTypeCode int

const (
	ALGAE TaxonTypeCode = iota + 1
	BEETLE
	BIRD
	FISH
	HERPETOLOGY
	MACROINVERTEBRATE
	MOSQUITO
	MOSQUITO_PATHOGENS
	SMALL_MAMMAL
	PLANT
	TICK
)

var taxon_type_names = map[TaxonTypeCode]string{
	ALGAE:              "ALGAE",
	BEETLE:             "BEETLE",
	BIRD:               "BIRD",
	FISH:               "FISH",
	HERPETOLOGY:        "HERPETOLOGY",
	MACROINVERTEBRATE:  "MACROINVERTEBRATE",
	MOSQUITO:           "MOSQUITO",
	MOSQUITO_PATHOGENS: "MOSQUITO_PATHOGENS",
	SMALL_MAMMAL:       "SMALL_MAMMAL",
	PLANT:              "PLANT",
	TICK:               "TICK",
}

// String returns the API name for code.
func (code TaxonTypeCode) String() string {

	name, ok := taxon_type_names[code]

	if !ok {
		return fmt.Sprintf("TaxonTypeCode(%d)", int(code))
	}

	return name
}

// TaxonTypeCodes returns all the known taxon type codes.
func TaxonTypeCodes() []TaxonTypeCode {

	codes := make([]TaxonTypeCode, 0, len(taxon_type_names))

	for code := ALGAE; code <= TICK; code++ {
		codes = append(codes, code)
	}

	return codes
}

// ParseTaxonTypeCode returns the TaxonTypeCode for name. Names are case-insensitive.
func ParseTaxonTypeCode(name string) (TaxonTypeCode, error) {

	for code, code_name := range taxon_type_names {

		if strings.EqualFold(code_name, name) {
			return code, nil
		}
	}

	return 0, fmt.Errorf("Unknown taxon type code '%s'", name)
}

// TaxonomyQuery is a struct containing the (optional) filters for a taxonomy query.
type TaxonomyQuery struct {
	Kingdom        string
	Phylum         string
	Division       string
	Order          string
	Class          string
	Family         string
	Genus          string
	ScientificName string
	// The maximum number of results. Zero means no limit.
	Limit int
}

// Encode returns the query's filters as an "&" separated query string. Filters are
// written in a fixed order and empty filters are omitted.
func (q *TaxonomyQuery) Encode() string {

	params := []struct {
		key   string
		value string
	}{
		{"kingdom", q.Kingdom},
		{"phylum", q.Phylum},
		{"division", q.Division},
		{"order", q.Order},
		{"class", q.Class},
		{"family", q.Family},
		{"genus", q.Genus},
		{"scientificName", q.ScientificName},
	}

	args := make([]string, 0)

	for _, p := range params {

		if p.value == "" {
			continue
		}

		args = append(args, p.key+"="+url.QueryEscape(p.value))
	}

	if q.Limit > 0 {
		args = append(args, "limit="+strconv.Itoa(q.Limit))
	}

	return strings.Join(args, "&")
}

// TaxonomyWithTypeCode returns the taxonomy records for code. If limit is greater than zero at most
// that many records are returned.
func (c *Client) TaxonomyWithTypeCode(ctx context.Context, code TaxonTypeCode, limit int) ([]byte, error) {

	query := "taxonTypeCode=" + code.String()

	if limit > 0 {
		query = query + "&limit=" + strconv.Itoa(limit)
	}

	return c.Get(ctx, "/taxonomy", query)
}

// Taxonomy returns the taxonomy records matching q. If q has no filters no request is made and
// a nil body is returned.
func (c *Client) Taxonomy(ctx context.Context, q *TaxonomyQuery) ([]byte, error) {

	if q == nil {
		return nil, nil
	}

	query := q.Encode()

	if query == "" {
		return nil, nil
	}

	return c.Get(ctx, "/taxonomy", query)
}
