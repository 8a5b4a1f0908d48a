package bulk

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// FingerprintFile returns the hex-encoded SHA-1 hash of the contents of path, for use as a document ID.
func FingerprintFile(path string) (string, error) {

	fh, err := os.Open(path)

	if err != nil {
		return "", fmt.Errorf("Failed to open %s for fingerprinting, %w", path, err)
	}

	defer fh.Close()

	h := sha1.New()

	_, err = io.Copy(h, fh)

	if err != nil {
		return "", fmt.Errorf("Failed to hash %s, %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
