// Package types holds the small set of types shared between the hive reader
// and the shell-bag analyzer: node handles, raw values, hive metadata and the
// typed error categories both layers report.
package types
