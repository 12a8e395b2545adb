package api

import (
	"github.com/gorilla/mux"

	"github.com/lukeacko/worklog/internal/config"
	"github.com/lukeacko/worklog/internal/transfer"
	"github.com/lukeacko/worklog/internal/worklog"
	"github.com/lukeacko/worklog/pkg/repository"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, store repository.Store, svc *worklog.Service, tr *transfer.Transfer) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(store, cfg.JWTSecret, cfg.TokenDuration)
	logsHandler := NewLogsHandler(svc)
	techHandler := NewTechniciansHandler(svc)
	transferHandler := NewTransferHandler(svc, tr)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Log entry endpoints
	apiV1.HandleFunc("/logs", logsHandler.CreateEntry).Methods("POST")
	apiV1.HandleFunc("/logs", logsHandler.ListEntries).Methods("GET")
	apiV1.HandleFunc("/logs/export", transferHandler.Export).Methods("GET")
	apiV1.HandleFunc("/logs/import", transferHandler.Import).Methods("POST")
	apiV1.HandleFunc("/logs/{id}", logsHandler.UpdateEntry).Methods("PUT")
	apiV1.HandleFunc("/logs/{id}", logsHandler.DeleteEntry).Methods("DELETE")

	// Technician roster endpoints
	apiV1.HandleFunc("/technicians", techHandler.List).Methods("GET")
	apiV1.HandleFunc("/technicians/{name}", techHandler.Upsert).Methods("PUT")
	apiV1.HandleFunc("/technicians/{name}/rename", techHandler.Rename).Methods("POST")
	apiV1.HandleFunc("/technicians/{name}", techHandler.Delete).Methods("DELETE")

	return r
}
