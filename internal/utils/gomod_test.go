package utils

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	content := "module example.com/app\n\ngo 1.25\n"
	require.NoError(t, afero.WriteFile(fs, "/work/app/go.mod", []byte(content), 0o644))
	require.NoError(t, fs.MkdirAll("/work/app/internal/widgets", 0o755))
	return fs
}

func TestParseModuleName(t *testing.T) {
	p := NewGoModParser(newModFs(t))

	name, err := p.ParseModuleName("/work/app/go.mod")
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", name)
}

func TestParseModuleNameRejectsOtherFiles(t *testing.T) {
	p := NewGoModParser(newModFs(t))

	_, err := p.ParseModuleName("/work/app/main.go")
	assert.Error(t, err)
}

func TestParseModuleNameWithoutModuleLine(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bare/go.mod", []byte("go 1.25\n"), 0o644))

	_, err := NewGoModParser(fs).ParseModuleName("/bare/go.mod")
	assert.Error(t, err)
}

func TestFindGoModFileWalksUp(t *testing.T) {
	p := NewGoModParser(newModFs(t))

	path, err := p.FindGoModFile("/work/app/internal/widgets")
	require.NoError(t, err)
	assert.Equal(t, "/work/app/go.mod", path)
}

func TestFindGoModFileMissing(t *testing.T) {
	p := NewGoModParser(afero.NewMemMapFs())

	_, err := p.FindGoModFile("/nowhere")
	assert.Error(t, err)
}

func TestPackageImportPath(t *testing.T) {
	p := NewGoModParser(newModFs(t))

	path, err := p.PackageImportPath("/work/app/internal/widgets")
	require.NoError(t, err)
	assert.Equal(t, "example.com/app/internal/widgets", path)

	root, err := p.PackageImportPath("/work/app")
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", root)
}
