// Package nest holds release metadata for the nest build configuration tool.
package nest

// Version is the current release.
const Version = "0.1.0"
