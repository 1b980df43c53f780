package main

import (
	"net/http"
	"os"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/api"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/config"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/database"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/handler"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/logger"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Services externes (météo, Linear)
	handler.Setup(cfg)

	// Prometheus
	middleware.InitPrometheus()
	go middleware.CleanupVisitors()

	// Initialize routes
	router := api.SetupRouter()

	mux := http.NewServeMux()
	mux.Handle("/metrics", middleware.MetricsAuthMiddleware(cfg, promhttp.Handler()))
	mux.Handle("/", middleware.RateLimitMiddleware(router))

	// CORS pour le front
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(mux)

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
