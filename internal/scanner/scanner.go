// Package scanner discovers .eml files under a root directory.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner walks a directory tree for .eml files.
type Scanner struct {
	rootPath string
}

// New creates a scanner for the given root path.
func New(rootPath string) *Scanner {
	return &Scanner{rootPath: rootPath}
}

// RootPath returns the root used for resolving relative paths.
func (s *Scanner) RootPath() string {
	return s.rootPath
}

// Scan recursively finds .eml files and returns their paths relative to
// the root, with forward slashes for portability.
func (s *Scanner) Scan() ([]string, error) {
	absRoot, err := filepath.Abs(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute root path: %w", err)
	}

	var emlFiles []string
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if info.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != ".eml" {
			return nil
		}
		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		emlFiles = append(emlFiles, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	return emlFiles, nil
}
