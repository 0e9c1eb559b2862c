// Package version exposes build-time version metadata for the pipemux binary.
package version

// Build metadata, stamped via -ldflags at release time.
var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the VCS commit hash the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
