// bulk-upload sends a previously written newline-delimited JSON file to the Elasticsearch bulk API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cyverse-gis/suas-metadata/common"
	"github.com/cyverse-gis/suas-metadata/operations/bulk"
	"github.com/cyverse-gis/suas-metadata/operations/export"
)

func main() {

	reader_uri := flag.String("reader-uri", ".", "A valid whosonfirst/go-reader URI (or local directory) to read the bulk file from.")
	key := flag.String("key", export.DefaultKey(export.NDJSON), "The name of the bulk file to upload.")

	es_url := flag.String("es-url", "", "The Elasticsearch URL. If empty the ELASTICSEARCH_URL environment variable is used.")
	es_username := flag.String("es-username", "", "The Elasticsearch username. If empty the ELASTICSEARCH_USERNAME environment variable is used.")
	es_password := flag.String("es-password", "", "The Elasticsearch password. If empty the ELASTICSEARCH_PASSWORD environment variable is used.")

	env_file := flag.String("env-file", ".env", "An optional .env file to read Elasticsearch settings from.")
	verbose := flag.Bool("verbose", false, "Enable verbose (debug) logging.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Upload a newline-delimited JSON file to the Elasticsearch bulk API.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t %s [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	logger := common.SetupLogging(*verbose)

	ctx := context.Background()

	err := common.LoadEnv(*env_file, false)

	if err != nil {
		log.Fatalf("Failed to load environment, %v", err)
	}

	r, err := common.NewReader(ctx, *reader_uri)

	if err != nil {
		log.Fatalf("Failed to create reader, %v", err)
	}

	body, err := export.Read(ctx, r, *key)

	if err != nil {
		log.Fatalf("Failed to read bulk file, %v", err)
	}

	c, err := bulk.NewClient(bulk.NewClientOptions(*es_url, *es_username, *es_password))

	if err != nil {
		log.Fatalf("Failed to create Elasticsearch client, %v", err)
	}

	err = c.Ping(ctx)

	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch, %v", err)
	}

	report, err := c.Upload(ctx, body)

	if err != nil {
		log.Fatalf("Failed to upload %s, %v", *key, err)
	}

	for _, msg := range report.Errors {
		logger.Warn("Failed to index record", "error", msg)
	}

	fmt.Printf("Attempted: %d\n", report.Attempted)
	fmt.Printf("Successful: %d\n", report.Successful)
	fmt.Printf("Failed: %d\n", report.Failed)
}
