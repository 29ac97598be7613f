package cli

// Config holds configuration for the generation process
type Config struct {
	// Directories to scan, one resolution round each. Supports
	// Go-style patterns like "./..." for recursive scanning.
	Directories []string

	// Verbose enables detailed output
	Verbose bool

	// ModuleName overrides go.mod module resolution
	ModuleName string
}
