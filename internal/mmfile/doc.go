// Package mmfile provides platform-specific helpers for loading hive files.
// On Unix the file is memory-mapped read-only; elsewhere it is read whole.
package mmfile
