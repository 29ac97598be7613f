package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fs afero.Fs
}

// NewCleaner creates a cleaner working against the real filesystem
func NewCleaner() *Cleaner {
	return NewFsCleaner(afero.NewOsFs())
}

// NewFsCleaner creates a cleaner working against the given filesystem
func NewFsCleaner(fs afero.Fs) *Cleaner {
	return &Cleaner{fs: fs}
}

// CleanGeneratedFiles removes every generated adapter and static
// injection file from the specified directories
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var removedFiles []string

	for _, dir := range directories {
		err := c.cleanDirectory(dir, &removedFiles)
		if err != nil {
			return removedFiles, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
	}

	return removedFiles, nil
}

// cleanDirectory cleans a single directory argument
func (c *Cleaner) cleanDirectory(dir string, removedFiles *[]string) error {
	// Handle Go-style patterns like ./...
	if strings.HasSuffix(dir, "/...") {
		baseDir := strings.TrimSuffix(dir, "/...")
		if baseDir == "" {
			baseDir = "."
		}
		return c.cleanRecursively(baseDir, removedFiles)
	}

	return c.cleanSingleDirectory(dir, removedFiles)
}

// cleanRecursively cleans directories recursively
func (c *Cleaner) cleanRecursively(baseDir string, removedFiles *[]string) error {
	return afero.Walk(c.fs, baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories that don't exist or can't be accessed
			return nil
		}

		if info.IsDir() {
			if err := c.cleanSingleDirectory(path, removedFiles); err != nil {
				// Log error but continue with other directories
				return nil
			}
		}

		return nil
	})
}

// cleanSingleDirectory removes generated files from one directory
func (c *Cleaner) cleanSingleDirectory(dir string, removedFiles *[]string) error {
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isGeneratedFile(name) {
			continue
		}

		path := filepath.Join(dir, name)
		if err := c.fs.Remove(path); err != nil {
			return fmt.Errorf("failed to remove file %s: %w", path, err)
		}
		*removedFiles = append(*removedFiles, path)
	}

	return nil
}

// isGeneratedFile matches the file names the emitter produces
func isGeneratedFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		(strings.HasPrefix(name, "autogen_inject_") || strings.HasPrefix(name, "autogen_static_"))
}
