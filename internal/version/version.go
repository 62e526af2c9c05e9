// Package version contains build version information for the workbench,
// split out for easy use from both cmd/ebnfc and internal/httpapi.
package version

// Current is the version string for the ebnfc CLI and the emitter/analysis
// core it drives.
const Current = "0.1.0"

// ServerCurrent is the version string reported by the "ebnfc serve" HTTP API.
const ServerCurrent = "0.1.0"
