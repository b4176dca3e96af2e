//go:build debug

// Package profile gates pprof behind a build tag so the hot path never
// pays for it in a production binary.
package profile

import (
	"log"
	"net/http"
	_ "net/http/pprof"
)

// StartPprof serves net/http/pprof on localhost:6060 in the background.
// Debug builds only; the gift id hot path itself never imports net/http.
func StartPprof() {
	go func() {
		log.Println("pprof enabled on :6060")
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
}
