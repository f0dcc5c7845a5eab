package api

import (
	"github.com/gorilla/mux"

	"github.com/tomasfarkasovsky/trailhead/internal/config"
	"github.com/tomasfarkasovsky/trailhead/pkg/repository"
)

// Store is what the read-only API needs from the repository layer.
type Store interface {
	repository.StatsRepo
	repository.UserCertificationRepo
}

func SetupRoutes(cfg config.APIConfig, version, buildTime string, store Store, db Pinger) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{DB: db}
	statsHandler := NewStatsHandler(store, store)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	apiV1.HandleFunc("/stats", statsHandler.ListStats).Methods("GET")
	apiV1.HandleFunc("/stats.csv", statsHandler.StatsCSV).Methods("GET")
	apiV1.HandleFunc("/users/{username}/certifications", statsHandler.UserCertifications).Methods("GET")

	return r
}
