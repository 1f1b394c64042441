package middleware

import (
	"log"
	"net/http"
	"time"
)

// LogRequests logs every request with its handling duration. Wired only when
// debug mode is on; the store's own logging covers normal operation.
func LogRequests(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	}
}
