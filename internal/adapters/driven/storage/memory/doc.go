// Package memory provides in-process implementations of the driven ports.
// They back tests and callers that embed the core without a data directory.
package memory
