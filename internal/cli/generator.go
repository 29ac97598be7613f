package cli

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/xiedantibu/dagger/internal/emitter"
	"github.com/xiedantibu/dagger/internal/report"
	"github.com/xiedantibu/dagger/internal/resolver"
	"github.com/xiedantibu/dagger/internal/symbols"
	"github.com/xiedantibu/dagger/internal/utils"
)

// GenerationSummary captures statistics about a completed run
type GenerationSummary struct {
	ModuleName         string
	DirectoriesScanned int
	Rounds             int
	TargetsEmitted     int
	GeneratedFiles     []string
	Diagnostics        int
}

// Generator coordinates the CLI generation process
type Generator struct {
	scanner      *DirectoryScanner
	goMod        *utils.GoModParser
	reporter     *report.Reporter
	diagnostics  *utils.DiagnosticSystem
	customModule string
	summary      GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator() *Generator {
	return NewGeneratorWithDiagnostics(utils.NewQuietDiagnostics())
}

// NewGeneratorWithDiagnostics creates a new CLI generator wired to a
// diagnostic system
func NewGeneratorWithDiagnostics(diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		scanner:     NewDirectoryScanner(),
		goMod:       utils.NewGoModParser(afero.NewOsFs()),
		reporter:    report.NewReporter(),
		diagnostics: diagnostics,
		summary:     GenerationSummary{GeneratedFiles: make([]string, 0)},
	}
}

// SetCustomModule sets a custom module name instead of go.mod resolution
func (g *Generator) SetCustomModule(moduleName string) {
	g.customModule = moduleName
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Reporter exposes the diagnostics collected during the run
func (g *Generator) Reporter() *report.Reporter {
	return g.reporter
}

// Generate executes the generation process for the given directories
func (g *Generator) Generate(directories []string) error {
	return g.Run(Config{Directories: directories, ModuleName: g.customModule})
}

// Run executes the complete generation process. Each scanned package
// directory is one resolution round; unresolved targets carry over to
// later rounds and are finally reported as errors.
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning directories: %v", config.Directories)

	moduleName, err := g.resolveModuleName(config)
	if err != nil {
		g.diagnostics.Warn("Could not resolve module name: %v", err)
	} else {
		g.summary.ModuleName = moduleName
		g.diagnostics.Verbose("Module: %s", moduleName)
	}

	dirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return err
	}
	g.summary.DirectoriesScanned = len(dirs)
	g.diagnostics.Verbose("Found %d package directories", len(dirs))

	universe := symbols.NewSourceUniverse()

	// Declare every package up front so a reference into a package
	// scanned in a later round defers instead of resolving early.
	for _, dir := range dirs {
		if pkg, err := packageName(dir); err == nil {
			universe.ExpectPackage(pkg)
		}
	}

	res := resolver.New(universe, emitter.New(emitter.NewOsSink()), g.reporter)

	for _, dir := range dirs {
		g.diagnostics.RoundProgress("Scanning " + dir)
		if err := universe.AddDirectory(dir); err != nil {
			return err
		}

		emitted := res.Round()
		g.summary.Rounds++
		if emitted > 0 {
			g.diagnostics.Verbose("Round %d emitted %d targets", g.summary.Rounds, emitted)
		}
	}

	res.Finish()

	g.summary.TargetsEmitted = res.EmittedCount()
	for _, artifact := range res.Artifacts() {
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, filepath.Join(artifact.Dir, artifact.FileName))
	}
	g.summary.Diagnostics = g.reporter.Count()

	for _, diagnostic := range g.reporter.Diagnostics() {
		g.diagnostics.Error("%s", diagnostic.String())
	}

	g.diagnostics.Verbose("Finished in %s", time.Since(startTime).Round(time.Millisecond))
	return g.reporter.Err()
}

// resolveModuleName prefers the explicit override, then the go.mod
// reachable from the first directory argument
func (g *Generator) resolveModuleName(config Config) (string, error) {
	if config.ModuleName != "" {
		return config.ModuleName, nil
	}

	startDir := "."
	if len(config.Directories) > 0 {
		startDir = strings.TrimSuffix(config.Directories[0], "/...")
		if startDir == "" {
			startDir = "."
		}
	}

	goModPath, err := g.goMod.FindGoModFile(startDir)
	if err != nil {
		return "", err
	}
	return g.goMod.ParseModuleName(goModPath)
}

// packageName reads the package clause of the first Go source file in
// a directory
func packageName(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	fileSet := token.NewFileSet()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fileSet, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err != nil {
			continue
		}
		return file.Name.Name, nil
	}

	return "", os.ErrNotExist
}
