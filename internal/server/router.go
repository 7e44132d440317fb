package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telhawk-systems/telhawk-relay/internal/handlers"
)

// NewRouter wires HTTP routes for the relay.
func NewRouter(h *handlers.RouteHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/api/v1/routes", h.ListRoutes)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
