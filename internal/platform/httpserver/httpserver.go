package httpserver

import (
	"net/http"
	"time"
)

// New builds the server the moderation tool talks to. Header reads are
// bounded so a stalled client cannot pin a connection before the request
// even starts; per-call upstream timeouts live in the Roblox client, not
// here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
