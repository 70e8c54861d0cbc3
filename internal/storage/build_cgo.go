//go:build cgo && !purego
// +build cgo,!purego

package storage

// This file is compiled when building with CGO enabled.
// It uses the C SQLite driver for faster query execution.
//
// Build command:
//   CGO_ENABLED=1 go build ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
