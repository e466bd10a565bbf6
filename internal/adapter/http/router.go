package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/cache/{key}", s.handleGet()).Methods("GET")
	api.HandleFunc("/cache/{key}", s.handlePut()).Methods("PUT")
	api.HandleFunc("/stats", s.handleStats()).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth()).Methods("GET")

	// private registry so repeated NewServer calls in tests do not
	// collide on duplicate collector registration
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		newStatsCollector(s.store),
	)
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
}
