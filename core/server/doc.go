// Package server holds configuration for the HTTP admin surface.
//
// The server itself is assembled in cmd/start.go; this package only carries
// the settings (listen port, API key) so that core/config can compose them
// with the other partial configurations.
package server
