package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/boyter/gocodewalker"
)

type DiscoverOptions struct {
	UseGitignore bool
	Exclude      []string // doublestar globs matched against the path relative to the root
}

// returns the first glob in `pattern_list` matching the slash separated `rel` path, if any.
func is_excluded(pattern_list []string, rel string) (string, bool) {
	rel = filepath.ToSlash(rel)
	for _, pattern := range pattern_list {
		ok, err := doublestar.Match(pattern, rel)
		if err == nil && ok {
			return pattern, true
		}
	}
	return "", false
}

// walks `root` looking for .toc files, returning their paths sorted.
// hidden directories (".git", ".release", ...) are never entered, so .toc files beneath them are not found.
func find_toc_files(root string, opts DiscoverOptions) ([]string, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	file_list_queue := make(chan *gocodewalker.File, 100)
	file_walker := gocodewalker.NewFileWalker(root, file_list_queue)
	file_walker.IgnoreGitIgnore = !opts.UseGitignore
	file_walker.IgnoreIgnoreFile = !opts.UseGitignore
	file_walker.AllowListExtensions = []string{"toc"}

	var walk_errors []error
	var mu sync.Mutex
	file_walker.SetErrorHandler(func(err error) bool {
		mu.Lock()
		defer mu.Unlock()
		walk_errors = append(walk_errors, err)
		return false
	})

	walk_done := make(chan error, 1)
	go func() {
		walk_done <- file_walker.Start()
	}()

	path_list := []string{}
	for f := range file_list_queue {
		if !strings.HasSuffix(f.Location, ".toc") {
			continue
		}
		rel, err := filepath.Rel(root, f.Location)
		if err != nil {
			rel = f.Location
		}
		pattern, excluded := is_excluded(opts.Exclude, rel)
		if excluded {
			slog.Debug("excluded", "file", f.Location, "pattern", pattern)
			continue
		}
		path_list = append(path_list, f.Location)
	}

	err := <-walk_done
	if err != nil {
		return nil, fmt.Errorf("failed to walk '%s': %w", root, err)
	}
	if len(walk_errors) > 0 {
		return nil, fmt.Errorf("failed to walk '%s': %w", root, walk_errors[0])
	}

	slices.Sort(path_list)
	return path_list, nil
}
