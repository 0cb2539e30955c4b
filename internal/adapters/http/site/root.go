// Package site serves the embedded outfit-of-the-day page.
package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register attaches the embedded site to r at / and /static/*.
func Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	files := http.FileServer(FS())
	r.Get("/", files.ServeHTTP)
	r.Get("/static/*", http.StripPrefix("/static", files).ServeHTTP)
}
