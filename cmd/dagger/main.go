package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/xiedantibu/dagger/internal/cli"
	"github.com/xiedantibu/dagger/internal/utils"
)

func main() {
	// Define command-line flags
	var (
		moduleFlag  = flag.String("module", "", "Custom module name for imports (defaults to go.mod module)")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flag.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = flag.Bool("clean", false, "Delete all generated autogen_*.go files from the specified directories")
		helpFlag    = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <directory-paths...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Dagger Injection Adapter Generator\n")
		fmt.Fprintf(os.Stderr, "Scans directories for Go files with dagger:: markers and inject struct tags and generates binding adapters.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(os.Stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(os.Stderr, "\nDirectory Patterns:\n")
		fmt.Fprintf(os.Stderr, "  ./...              Scan current directory and all subdirectories recursively\n")
		fmt.Fprintf(os.Stderr, "  ./internal/...     Scan internal directory and all its subdirectories\n")
		fmt.Fprintf(os.Stderr, "  ./internal/gears   Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./...                                       # Scan everything recursively\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s ./internal/gears ./internal/widgets         # Scan specific directories\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --module github.com/myorg/myapp ./...       # Specify custom module name\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --verbose ./internal/...                    # Enable detailed output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --clean ./...                               # Delete all generated files\n", os.Args[0])
	}

	flag.Parse()

	// Show help if requested
	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	// Validate arguments
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: At least one directory path is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	// Create diagnostic system based on flags
	var diagnostics *utils.DiagnosticSystem
	if *quietFlag {
		diagnostics = utils.NewQuietDiagnostics()
	} else if *verboseFlag {
		diagnostics = utils.NewVerboseDiagnostics()
	} else {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	// Show startup banner
	diagnostics.Section("Dagger Adapter Generator")

	// Handle clean operation
	if *cleanFlag {
		diagnostics.Info("Starting cleanup operation...")

		cleaner := cli.NewCleaner()
		removed, err := cleaner.CleanGeneratedFiles(args)
		if err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			os.Exit(1)
		}

		diagnostics.Success("Removed %d generated files", len(removed))
		return
	}

	// Show configuration
	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(args, ", "))
		if *moduleFlag != "" {
			diagnostics.List("Custom module: %s", *moduleFlag)
		}
		diagnostics.List("Verbose mode: enabled")
	}

	// Create and configure generator
	generator := cli.NewGeneratorWithDiagnostics(diagnostics)
	if *moduleFlag != "" {
		generator.SetCustomModule(*moduleFlag)
		diagnostics.Debug("Using custom module: %s", *moduleFlag)
	}

	// Run the generation process
	diagnostics.Subsection("Code Generation")

	err := generator.Generate(args)
	if err != nil {
		diagnostics.Error("Generation failed: %v", err)
		os.Exit(1)
	}

	// Show final summary
	summary := generator.GetSummary()
	stats := map[string]interface{}{
		"Directories scanned": summary.DirectoriesScanned,
		"Resolution rounds":   summary.Rounds,
		"Targets emitted":     summary.TargetsEmitted,
		"Files generated":     len(summary.GeneratedFiles),
	}

	diagnostics.Summary("Generation Complete!", stats)

	// Show generated files in verbose mode
	if *verboseFlag && len(summary.GeneratedFiles) > 0 {
		diagnostics.Subsection("Generated Files")
		for _, file := range summary.GeneratedFiles {
			diagnostics.List("%s", file)
		}
	}

	diagnostics.Success("Your injection adapters are ready to use!")
}
