// Package buildinfo carries the version identifiers stamped into the
// binary at build time.
package buildinfo

// Set through -ldflags at release time; the zero values identify a
// from-source development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
