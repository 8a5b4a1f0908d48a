package neon

import (
	"context"
	"fmt"

	"github.com/tidwall/pretty"
	"gocloud.dev/blob"
)

// PrettyPrint returns body indented with four spaces. An empty body is rendered as "[]".
func PrettyPrint(body []byte) []byte {

	if len(body) == 0 {
		body = []byte(`[]`)
	}

	opts := &pretty.Options{
		Width:  80,
		Prefix: "",
		Indent: "    ",
	}

	return pretty.PrettyOptions(body, opts)
}

// Save writes body to key in bucket.
func Save(ctx context.Context, bucket *blob.Bucket, key string, body []byte) error {

	err := bucket.WriteAll(ctx, key, body, nil)

	if err != nil {
		return fmt.Errorf("Failed to write %s, %w", key, err)
	}

	return nil
}
