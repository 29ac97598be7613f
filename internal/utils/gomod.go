package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"
)

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct {
	fs afero.Fs
}

// NewGoModParser creates a new go.mod parser over the given filesystem
func NewGoModParser(fs afero.Fs) *GoModParser {
	return &GoModParser{fs: fs}
}

// ParseModuleName extracts the module name from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if !strings.HasSuffix(cleanPath, "go.mod") {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := afero.ReadFile(p.fs, cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	// Parse using official modfile parser
	modFile, err := modfile.Parse(cleanPath, content, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}

	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in go.mod")
	}

	return modFile.Module.Mod.Path, nil
}

// FindGoModFile searches for go.mod starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir := filepath.Clean(startDir)

	for {
		goModPath := filepath.Join(currentDir, "go.mod")

		if exists, err := afero.Exists(p.fs, goModPath); err == nil && exists {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found")
}

// PackageImportPath derives the import path of a directory relative to
// the module root that declares it
func (p *GoModParser) PackageImportPath(dir string) (string, error) {
	goModPath, err := p.FindGoModFile(dir)
	if err != nil {
		return "", err
	}

	moduleName, err := p.ParseModuleName(goModPath)
	if err != nil {
		return "", err
	}

	moduleRoot := filepath.Dir(goModPath)
	rel, err := filepath.Rel(moduleRoot, filepath.Clean(dir))
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s against module root: %w", dir, err)
	}

	if rel == "." {
		return moduleName, nil
	}
	return moduleName + "/" + filepath.ToSlash(rel), nil
}
