// index-directory extracts the EXIF metadata of every readable image below a directory and either
// uploads it to Elasticsearch or writes it to a file.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cyverse-gis/suas-metadata/common"
	"github.com/cyverse-gis/suas-metadata/operations/bulk"
	"github.com/cyverse-gis/suas-metadata/operations/export"
	"github.com/cyverse-gis/suas-metadata/operations/extract"
	"github.com/cyverse-gis/suas-metadata/operations/gather"
	"github.com/cyverse-gis/suas-metadata/operations/index"
)

const UPLOAD string = "upload"

func main() {

	extractor_name := flag.String("extractor", extract.EXIFTOOL, "The metadata extractor to use. Valid options are: exiftool, goexif.")
	exiftool_path := flag.String("exiftool-path", "", "The path to the exiftool binary. If empty exiftool is resolved from $PATH.")
	batch_size := flag.Int("batch-size", extract.DEFAULT_BATCH_SIZE, "The maximum number of files to send to exiftool in a single request.")

	mode := flag.String("mode", UPLOAD, "What to do with the index records. Valid options are: upload, ndjson, json, text, geojson.")
	writer_uri := flag.String("writer-uri", ".", "A valid whosonfirst/go-writer URI (or local directory) to write output to when -mode is not 'upload'.")
	key := flag.String("key", "", "The name of the output file. If empty a default name for -mode is used.")

	es_url := flag.String("es-url", "", "The Elasticsearch URL. If empty the ELASTICSEARCH_URL environment variable is used.")
	es_username := flag.String("es-username", "", "The Elasticsearch username. If empty the ELASTICSEARCH_USERNAME environment variable is used.")
	es_password := flag.String("es-password", "", "The Elasticsearch password. If empty the ELASTICSEARCH_PASSWORD environment variable is used.")
	es_index := flag.String("index", bulk.DEFAULT_INDEX, "The Elasticsearch index to store records in.")
	es_type := flag.String("type", bulk.DEFAULT_TYPE, "The document type assigned to bulk actions. Pass an empty string to omit it.")

	extensions := flag.String("extensions", "", "An optional comma-separated list of file extensions to limit indexing to.")
	include_path := flag.Bool("include-path", false, "Include the path of each source file in its record.")
	id_from_fingerprint := flag.Bool("id-from-fingerprint", false, "Derive document IDs from the SHA-1 fingerprint of each source file.")

	env_file := flag.String("env-file", ".env", "An optional .env file to read Elasticsearch settings from.")
	verbose := flag.Bool("verbose", false, "Enable verbose (debug) logging.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Index the EXIF metadata of the images below a directory.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t %s [options] [directory]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	logger := common.SetupLogging(*verbose)

	ctx := context.Background()

	err := common.LoadEnv(*env_file, false)

	if err != nil {
		log.Fatalf("Failed to load environment, %v", err)
	}

	root := flag.Arg(0)

	if root == "" {

		root, err = prompt("Enter the path to the directory to read image metadata from: ")

		if err != nil {
			log.Fatalf("Failed to read directory, %v", err)
		}
	}

	info, err := os.Stat(root)

	if err != nil {
		log.Fatalf("Failed to stat %s, %v", root, err)
	}

	if !info.IsDir() {
		log.Fatalf("%s is not a directory", root)
	}

	ex_opts := &extract.ExtractorOptions{
		ExiftoolPath: *exiftool_path,
		BatchSize:    *batch_size,
	}

	ex, err := extract.NewExtractor(ctx, *extractor_name, ex_opts)

	if err != nil {
		log.Fatalf("Failed to create extractor, %v", err)
	}

	defer ex.Close()

	// document IDs are only used by the bulk API
	fingerprint := *id_from_fingerprint && (*mode == UPLOAD || *mode == export.NDJSON)

	idx_opts := &index.IndexDirectoryOptions{
		Extractor: ex,
		Record: &index.RecordOptions{
			UploadDate:  time.Now(),
			IncludePath: *include_path || fingerprint,
		},
	}

	if *extensions != "" {
		idx_opts.Gather = &gather.GatherOptions{
			Extensions: strings.Split(*extensions, ","),
		}
	}

	records, err := index.IndexDirectory(ctx, root, idx_opts)

	if err != nil {
		log.Fatalf("Failed to index %s, %v", root, err)
	}

	logger.Info("Indexed directory", "root", root, "records", len(records))

	bulk_opts := &bulk.ActionsOptions{
		Index:             *es_index,
		Type:              *es_type,
		IDFromFingerprint: fingerprint,
		StripPath:         fingerprint && !*include_path,
	}

	if *mode != UPLOAD {

		if *key == "" {
			*key = export.DefaultKey(*mode)
		}

		body, err := export.Encode(records, *mode, bulk_opts)

		if err != nil {
			log.Fatalf("Failed to encode records, %v", err)
		}

		wr, err := common.NewWriter(ctx, *writer_uri)

		if err != nil {
			log.Fatalf("Failed to create writer, %v", err)
		}

		err = export.Write(ctx, wr, *key, body)

		if err != nil {
			log.Fatalf("Failed to write output, %v", err)
		}

		err = wr.Close(ctx)

		if err != nil {
			log.Fatalf("Failed to close writer, %v", err)
		}

		logger.Info("Wrote records", "key", *key, "records", len(records))
		return
	}

	actions, err := bulk.NewActions(records, bulk_opts)

	if err != nil {
		log.Fatalf("Failed to derive bulk actions, %v", err)
	}

	c, err := bulk.NewClient(bulk.NewClientOptions(*es_url, *es_username, *es_password))

	if err != nil {
		log.Fatalf("Failed to create Elasticsearch client, %v", err)
	}

	err = c.Ping(ctx)

	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch, %v", err)
	}

	report, err := c.UploadActions(ctx, actions)

	if err != nil {
		log.Fatalf("Failed to upload records, %v", err)
	}

	for _, msg := range report.Errors {
		logger.Warn("Failed to index record", "error", msg)
	}

	fmt.Printf("Attempted: %d\n", report.Attempted)
	fmt.Printf("Successful: %d\n", report.Successful)
	fmt.Printf("Failed: %d\n", report.Failed)
}

func prompt(msg string) (string, error) {

	fmt.Print(msg)

	scanner := bufio.NewScanner(os.Stdin)

	if !scanner.Scan() {

		err := scanner.Err()

		if err == nil {
			err = fmt.Errorf("No input")
		}

		return "", err
	}

	return strings.TrimSpace(scanner.Text()), nil
}
