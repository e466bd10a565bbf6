// Package http exposes the composite store over a small REST surface:
// cache lookups and preloads, stats, health and Prometheus metrics.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nvqanh/bloomcache/packages/store"
)

type Server struct {
	store  *store.Store
	router *mux.Router
}

func NewServer(s *store.Store) *Server {
	srv := &Server{
		store:  s,
		router: mux.NewRouter(),
	}
	srv.setupRoutes()
	return srv
}

// Router returns the handler to mount on an http.Server.
func (s *Server) Router() http.Handler {
	return corsMiddleware(requestIDMiddleware(accessLogMiddleware(s.router)))
}
