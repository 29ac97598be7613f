package emitter

import (
	"fmt"
	"sort"
	"strings"
)

// ImportManager deduplicates and renders the import section of one
// generated file
type ImportManager struct {
	runtimeImport string
	userImports   map[string]bool
}

// NewImportManager creates an import manager for one artifact
func NewImportManager(runtimeImport string) *ImportManager {
	return &ImportManager{
		runtimeImport: runtimeImport,
		userImports:   make(map[string]bool),
	}
}

// AddUserImport records an import path a dependency type lives in.
// Empty paths (same-package references) are ignored.
func (im *ImportManager) AddUserImport(path string) {
	if path != "" {
		im.userImports[path] = true
	}
}

// AddUserImports records every import path a dependency reference spans.
// Composite types can reach into more than one package.
func (im *ImportManager) AddUserImports(paths []string) {
	for _, path := range paths {
		im.AddUserImport(path)
	}
}

// Generate renders the import block
func (im *ImportManager) Generate() string {
	var imports []string
	if im.runtimeImport != "" {
		imports = append(imports, fmt.Sprintf("%q", im.runtimeImport))
	}

	if len(im.userImports) > 0 {
		var user []string
		for path := range im.userImports {
			user = append(user, fmt.Sprintf("%q", path))
		}
		sort.Strings(user)
		imports = append(imports, user...)
	}

	if len(imports) == 0 {
		return ""
	}
	if len(imports) == 1 {
		return fmt.Sprintf("import %s\n\n", imports[0])
	}

	var b strings.Builder
	b.WriteString("import (\n")
	for _, imp := range imports {
		b.WriteString("\t" + imp + "\n")
	}
	b.WriteString(")\n\n")
	return b.String()
}
