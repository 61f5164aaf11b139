package api

import (
	"net/http"

	"delivery-route-service/internal/api/handlers"
	"delivery-route-service/internal/config"
	"delivery-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(regions ports.RegionRepository, reports ports.ReportRepository, defaults config.Simulation) http.Handler {
	mux := http.NewServeMux()

	regionHandler := &handlers.RegionHandler{Repo: regions}
	runHandler := &handlers.RunHandler{
		Regions: regions,
		Reports: reports,
		Default: defaults,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/regions", regionHandler.List)
	mux.HandleFunc("POST /runs", runHandler.Start)
	mux.HandleFunc("GET /runs/{id}", runHandler.Get)

	return loggingMiddleware(mux)
}
