// Package walker reads microstock titles from files, either plain text with
// one title per line or CSV metadata exports with a title column.
package walker

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize is the maximum title file size to read (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// ErrNoFiles is returned when no pattern matched a readable title file.
var ErrNoFiles = errors.New("no title files matched")

// Config controls Load.
type Config struct {
	Patterns    []string // Doublestar globs, e.g. "batches/**/*.txt".
	Exclude     []string // Globs matched against the path or the base name.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// File is one title file that was read.
type File struct {
	Path   string
	Titles []string
}

// Expand resolves the patterns to a sorted, de-duplicated list of regular
// files. A pattern without glob metacharacters names a file directly.
func Expand(patterns, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("walker: invalid pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("walker: glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || excludedDir(m) || MatchesExclude(m, exclude) {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Load expands the configured patterns and reads the titles of every
// matching text file. Binary and oversized files are skipped.
func Load(config Config) ([]File, error) {
	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	paths, err := Expand(config.Patterns, config.Exclude)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.Size() > maxSize || isBinary(path) {
			continue
		}
		titles, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: path, Titles: titles})
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return files, nil
}

// Titles flattens the titles of all files, in file order.
func Titles(files []File) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Titles...)
	}
	return out
}

// ReadFile reads the titles of a single file. Files ending in .csv are read
// as CSV, everything else as one title per line.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("walker: open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		titles, err := ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("walker: %s: %w", path, err)
		}
		return titles, nil
	}
	titles, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("walker: read %s: %w", path, err)
	}
	return titles, nil
}

// ReadLines returns the non-blank, trimmed lines of r.
func ReadLines(r io.Reader) ([]string, error) {
	var titles []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			titles = append(titles, line)
		}
	}
	return titles, scanner.Err()
}

// ReadCSV returns the values of the "title" column (case-insensitive) of a
// CSV export. Without such a header the first column is used and the first
// row is treated as data.
func ReadCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col, start := 0, 0
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "title") {
			col, start = i, 1
			break
		}
	}

	var titles []string
	for _, rec := range records[start:] {
		if col >= len(rec) {
			continue
		}
		// A title is a single line; embedded newlines would split it.
		title := strings.Join(strings.Fields(rec[col]), " ")
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// isBinary reads the first 512 bytes of a file and checks for NUL bytes.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}
