package gather

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned when the root of a crawl is not a directory.
var ErrNotDirectory = errors.New("Path is not a directory")

// GatherFileCallbackFunc is invoked once for every readable file found during a crawl.
type GatherFileCallbackFunc func(context.Context, string) error

// GatherOptions is a struct containing options used to filter the files reported by a crawl.
type GatherOptions struct {
	// An optional list of filename extensions (for example ".jpg") to include. Matches are case-insensitive. If empty all files are included.
	Extensions []string
}

func (opts *GatherOptions) include(path string) bool {

	if opts == nil || len(opts.Extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)

	for _, e := range opts.Extensions {

		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}

		if strings.EqualFold(e, ext) {
			return true
		}
	}

	return false
}

// GatherFiles returns the paths of all the readable files below root.
func GatherFiles(ctx context.Context, root string) ([]string, error) {
	return GatherFilesWithOptions(ctx, root, &GatherOptions{})
}

// GatherFilesWithOptions returns the paths of all the readable files below root that match opts.
func GatherFilesWithOptions(ctx context.Context, root string, opts *GatherOptions) ([]string, error) {

	paths := make([]string, 0)

	cb := func(ctx context.Context, path string) error {
		paths = append(paths, path)
		return nil
	}

	err := CrawlFilesWithOptions(ctx, root, opts, cb)

	if err != nil {
		return nil, err
	}

	return paths, nil
}

// CrawlFiles dispatches the path of every readable file below root to cb.
func CrawlFiles(ctx context.Context, root string, cb GatherFileCallbackFunc) error {
	return CrawlFilesWithOptions(ctx, root, &GatherOptions{}, cb)
}

// CrawlFilesWithOptions dispatches the path of every readable file below root, that matches opts, to cb.
// The files in a directory are dispatched, in lexical order, before descending in to its subdirectories.
// Symlinked directories are crawled last and only if their target has not already been crawled.
// Entries which can not be read are skipped rather than reported as errors.
func CrawlFilesWithOptions(ctx context.Context, root string, opts *GatherOptions, cb GatherFileCallbackFunc) error {

	info, err := os.Stat(root)

	if err != nil {
		return fmt.Errorf("Failed to stat %s, %w", root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("Invalid root '%s', %w", root, ErrNotDirectory)
	}

	logger := slog.Default()
	seen := make(map[string]bool)

	// directories reached through a symlink are crawled after all the real directories so that
	// files are reported under their real paths
	linked := make([]string, 0)

	var list func(context.Context, string) error

	list = func(ctx context.Context, dir string) error {

		real_dir, err := filepath.EvalSymlinks(dir)

		if err != nil {
			logger.Debug("Failed to resolve directory, skipping", "path", dir, "error", err)
			return nil
		}

		if seen[real_dir] {
			return nil
		}

		seen[real_dir] = true

		entries, err := os.ReadDir(dir)

		if err != nil {
			logger.Debug("Failed to read directory, skipping", "path", dir, "error", err)
			return nil
		}

		subdirs := make([]string, 0)

		for _, e := range entries {

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				// pass
			}

			path := filepath.Join(dir, e.Name())

			// os.Stat rather than e.Info() so that symlinks are resolved
			info, err := os.Stat(path)

			if err != nil {
				logger.Debug("Failed to stat entry, skipping", "path", path, "error", err)
				continue
			}

			if info.IsDir() {

				if e.Type()&fs.ModeSymlink != 0 {
					linked = append(linked, path)
				} else {
					subdirs = append(subdirs, path)
				}

				continue
			}

			if !info.Mode().IsRegular() {
				continue
			}

			if !opts.include(path) {
				continue
			}

			if !isReadable(path) {
				logger.Debug("File is not readable, skipping", "path", path)
				continue
			}

			err = cb(ctx, path)

			if err != nil {
				return err
			}
		}

		for _, path := range subdirs {

			err := list(ctx, path)

			if err != nil {
				return err
			}
		}

		return nil
	}

	err = list(ctx, root)

	if err != nil {
		return err
	}

	for len(linked) > 0 {

		path := linked[0]
		linked = linked[1:]

		err := list(ctx, path)

		if err != nil {
			return err
		}
	}

	return nil
}

func isReadable(path string) bool {

	fh, err := os.Open(path)

	if err != nil {
		return false
	}

	fh.Close()
	return true
}
