package api

import (
	"net/http"

	"github.com/fatih/color"
	"github.com/gorilla/mux"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/handler"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

func SetupRouter() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.MonitorMiddleware)
	r.Use(middleware.OptionalAuth)

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware)
	authenticatedRoutes.Use(middleware.LoggerMiddleware)

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/auth/signup", handler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/provider", handler.ProviderSignIn).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodPost)

	// Profil
	authenticatedRoutes.HandleFunc("/users/me", handler.Me).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/users/me", handler.UpdateMe).Methods(http.MethodPut, http.MethodPatch)

	// Homepage publique : challenge courant + classement
	r.HandleFunc("/home", handler.GetHome).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", handler.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/records/all-time", handler.GetAllTimeRecord).Methods(http.MethodGet)

	// Courses
	authenticatedRoutes.HandleFunc("/runs", handler.SaveRun).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/runs", handler.GetMyRuns).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/records/coldest", handler.GetMyColdestRun).Methods(http.MethodGet)

	// Météo (pré-remplissage température)
	authenticatedRoutes.HandleFunc("/weather", handler.GetWeather).Methods(http.MethodGet)

	// Feedback
	authenticatedRoutes.HandleFunc("/feedback", handler.CreateFeedback).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/admin/feedback", handler.GetFeedback).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/feedback/{id}/retry", handler.RetryFeedback).Methods(http.MethodPost)

	// Back office : challenges
	authenticatedRoutes.HandleFunc("/admin/challenges", handler.GetChallenges).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/challenges", handler.CreateChallenge).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/admin/challenges/{id}/current", handler.SetCurrentChallenge).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/admin/challenges/{id}/enroll", handler.EnrollUsers).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/admin/challenges/{id}", handler.DeleteChallenge).Methods(http.MethodDelete)

	// Back office : utilisateurs
	authenticatedRoutes.HandleFunc("/admin/users", handler.GetUsers).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/users/{id}", handler.AdminUpdateUser).Methods(http.MethodPut, http.MethodPatch)
	authenticatedRoutes.HandleFunc("/admin/users/{id}", handler.AdminDeleteUser).Methods(http.MethodDelete)

	// Back office : modération des courses
	authenticatedRoutes.HandleFunc("/admin/runs/{id}", handler.AdminUpdateRun).Methods(http.MethodPut, http.MethodPatch)
	authenticatedRoutes.HandleFunc("/admin/runs/{id}", handler.AdminDeleteRun).Methods(http.MethodDelete)

	// Back office : analytics
	authenticatedRoutes.HandleFunc("/admin/stats/overview", handler.GetOverviewStats).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/stats/participation", handler.GetAllParticipation).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/stats/challenges/{id}/participation", handler.GetChallengeParticipation).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/stats/engagement", handler.GetEngagement).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/stats/runs-by-day", handler.GetRunsByDay).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/stats/temperature-distribution", handler.GetTemperatureDistribution).Methods(http.MethodGet)

	// Back office : exports
	authenticatedRoutes.HandleFunc("/admin/export/users", handler.ExportUsers).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/export/challenges", handler.ExportChallenges).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/export/challenges/{id}/runs", handler.ExportChallengeRuns).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/export/challenges/{id}/leaderboard", handler.ExportChallengeLeaderboard).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
