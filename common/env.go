package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads environment variables from path, a ".env" style file. Variables that are
// already set are not overridden. A missing file is only an error if required is true.
func LoadEnv(path string, required bool) error {

	if path == "" {
		return nil
	}

	err := godotenv.Load(path)

	if err == nil {
		return nil
	}

	if !required && errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("Failed to load environment from %s, %w", path, err)
}

// Getenv returns the value of the environment variable key, or fallback if it is unset or empty.
func Getenv(key string, fallback string) string {

	v := os.Getenv(key)

	if v == "" {
		return fallback
	}

	return v
}
