//go:build !debug

// Package profile gates pprof behind a build tag so the hot path never
// pays for it in a production binary.
package profile

// StartPprof is a no-op in non-debug builds.
func StartPprof() {}
