// neon-query fetches records from the NEON data API and prints them, or saves them to a bucket.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cyverse-gis/suas-metadata/common"
	"github.com/cyverse-gis/suas-metadata/neon"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

func main() {

	resource := flag.String("resource", "products", "The NEON resource to query. Valid options are: products, product, sites, site, locations, location, data, taxonomy.")
	base_url := flag.String("base-url", neon.DEFAULT_BASE_URL, "The base URL of the NEON data API.")

	code := flag.String("code", "", "The product code, site code or location name for the 'product', 'site', 'location' and 'data' resources.")
	site := flag.String("site", "", "The site code for the 'data' resource.")
	year_month := flag.String("year-month", "", "The month, formatted as YYYY-MM, for the 'data' resource.")
	file_name := flag.String("file", "", "An optional file name for the 'data' resource.")

	taxon_type := flag.String("taxon-type", "", "A taxon type code (for example BIRD) for the 'taxonomy' resource. If set the other taxonomy filters are ignored.")
	limit := flag.Int("limit", 0, "The maximum number of taxonomy records to return. Zero means no limit.")

	q := &neon.TaxonomyQuery{}

	flag.StringVar(&q.Kingdom, "kingdom", "", "Filter taxonomy records by kingdom.")
	flag.StringVar(&q.Phylum, "phylum", "", "Filter taxonomy records by phylum.")
	flag.StringVar(&q.Division, "division", "", "Filter taxonomy records by division.")
	flag.StringVar(&q.Order, "order", "", "Filter taxonomy records by order.")
	flag.StringVar(&q.Class, "class", "", "Filter taxonomy records by class.")
	flag.StringVar(&q.Family, "family", "", "Filter taxonomy records by family.")
	flag.StringVar(&q.Genus, "genus", "", "Filter taxonomy records by genus.")
	flag.StringVar(&q.ScientificName, "scientific-name", "", "Filter taxonomy records by scientific name.")

	bucket_uri := flag.String("bucket-uri", "", "A valid gocloud.dev/blob URI to save output to. If empty output is written to STDOUT.")
	key := flag.String("key", "output.txt", "The name of the file to save output to when -bucket-uri is set.")

	verbose := flag.Bool("verbose", false, "Enable verbose (debug) logging.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Query the NEON data API.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t %s [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	logger := common.SetupLogging(*verbose)

	ctx := context.Background()

	c := neon.NewClient(neon.WithBaseURL(*base_url))

	var body []byte
	var err error

	require_code := func() {
		if *code == "" {
			log.Fatalf("The '%s' resource requires -code", *resource)
		}
	}

	switch *resource {
	case "products":
		body, err = marshalCodes(c.ProductCodes(ctx))
	case "product":
		require_code()
		body, err = c.Product(ctx, *code)
	case "sites":
		body, err = marshalCodes(c.SiteCodes(ctx))
	case "site":
		require_code()
		body, err = c.Site(ctx, *code)
	case "locations":
		body, err = marshalCodes(c.LocationNames(ctx))
	case "location":
		require_code()
		body, err = c.Location(ctx, *code)
	case "data":

		require_code()

		if *site == "" || *year_month == "" {
			log.Fatalf("The 'data' resource requires -site and -year-month")
		}

		body, err = c.Data(ctx, *code, *site, *year_month, *file_name)

	case "taxonomy":

		if *taxon_type != "" {

			tc, parse_err := neon.ParseTaxonTypeCode(*taxon_type)

			if parse_err != nil {
				log.Fatalf("Invalid -taxon-type, %v", parse_err)
			}

			body, err = c.TaxonomyWithTypeCode(ctx, tc, *limit)

		} else {
			q.Limit = *limit
			body, err = c.Taxonomy(ctx, q)
		}

	default:
		log.Fatalf("Unsupported resource '%s'", *resource)
	}

	if err != nil {
		log.Fatalf("Failed to query %s, %v", *resource, err)
	}

	out := neon.PrettyPrint(body)

	if *bucket_uri == "" {
		os.Stdout.Write(out)
		return
	}

	bucket, err := blob.OpenBucket(ctx, *bucket_uri)

	if err != nil {
		log.Fatalf("Failed to open bucket, %v", err)
	}

	defer bucket.Close()

	err = neon.Save(ctx, bucket, *key, out)

	if err != nil {
		log.Fatalf("Failed to save output, %v", err)
	}

	logger.Info("Saved output", "bucket", *bucket_uri, "key", *key)
}

func marshalCodes(codes []string, err error) ([]byte, error) {

	if err != nil {
		return nil, err
	}

	return json.Marshal(codes)
}
