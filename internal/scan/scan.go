// Package scan enumerates code directories under a root and the source
// images inside each of them.
package scan

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Any Unicode decimal digit, including full-width.
var codePattern = regexp.MustCompile(`^\p{Nd}{4}$`)

// CodeDir is a directory whose name is a four digit product batch code.
type CodeDir struct {
	Code string
	Path string
}

// Scanner lists code directories under Root and accepted images in them.
type Scanner struct {
	Root       string
	Extensions map[string]bool // lowercase, with leading dot
}

// New returns a scanner accepting the extensions in set, typically
// config.Config.ExtensionSet.
func New(root string, set map[string]bool) *Scanner {
	return &Scanner{Root: root, Extensions: set}
}

// IsCode reports whether name is exactly four decimal digits.
func IsCode(name string) bool {
	return codePattern.MatchString(name)
}

// CodeDirs yields the code directories directly under Root in name order.
// Entries that are not directories or whose names are not codes are
// skipped. Iterating again re-reads the root. A failure to read the root is
// yielded once as an error.
func (s *Scanner) CodeDirs() iter.Seq2[CodeDir, error] {
	return func(yield func(CodeDir, error) bool) {
		entries, err := os.ReadDir(s.Root)
		if err != nil {
			yield(CodeDir{}, fmt.Errorf("failed to read root directory: %w", err))
			return
		}
		// os.ReadDir returns entries sorted by filename.
		for _, e := range entries {
			if !IsCode(e.Name()) {
				continue
			}
			path := filepath.Join(s.Root, e.Name())
			if !isDir(path) {
				continue
			}
			if !yield(CodeDir{Code: e.Name(), Path: path}, nil) {
				return
			}
		}
	}
}

// Images returns the accepted image files directly inside dir, sorted by
// name. Nested directories are not descended into.
func (s *Scanner) Images(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !s.Extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !isRegular(path) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// isDir follows symlinks.
func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
