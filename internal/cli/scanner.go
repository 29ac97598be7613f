package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xiedantibu/dagger/internal/errors"
)

// DirectoryScanner expands directory arguments into the list of
// package directories to feed the universe
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// ScanDirectories resolves the provided directory arguments to package
// directories that contain Go files. A trailing "/..." recurses into
// all subdirectories; a plain path names exactly one package directory.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	for _, rootDir := range rootDirs {
		if strings.HasSuffix(rootDir, "/...") {
			baseDir := strings.TrimSuffix(rootDir, "/...")
			if baseDir == "" {
				baseDir = "."
			}
			expanded, err := s.expandRecursive(baseDir)
			if err != nil {
				return nil, err
			}
			for _, dir := range expanded {
				if !seen[dir] {
					seen[dir] = true
					dirs = append(dirs, dir)
				}
			}
			continue
		}

		cleanPath := filepath.Clean(rootDir)
		hasGo, err := containsGoFiles(cleanPath)
		if err != nil {
			return nil, err
		}
		if hasGo && !seen[cleanPath] {
			seen[cleanPath] = true
			dirs = append(dirs, cleanPath)
		}
	}

	return dirs, nil
}

// expandRecursive walks a tree collecting every directory with Go
// files, in walk order so generation output stays stable
func (s *DirectoryScanner) expandRecursive(baseDir string) ([]string, error) {
	var dirs []string

	err := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if path != baseDir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
			return filepath.SkipDir
		}

		hasGo, err := containsGoFiles(path)
		if err != nil {
			return err
		}
		if hasGo {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.FileSystemErrorCode, err, "failed to scan %s", baseDir)
	}

	return dirs, nil
}

// containsGoFiles reports whether a directory holds at least one
// non-test, non-generated Go source file
func containsGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, errors.Wrapf(errors.FileSystemErrorCode, err, "failed to read directory %s", dir)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if strings.HasSuffix(name, "_test.go") || strings.HasPrefix(name, "autogen_") {
			continue
		}
		return true, nil
	}
	return false, nil
}
