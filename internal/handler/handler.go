package handler

import (
	"net/http"

	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/config"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/services"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

var (
	cfg            *config.Config
	weatherService *services.WeatherService
	linearService  *services.LinearService
)

// Setup initialise les services externes des handlers. À appeler depuis
// main avant de monter le router.
func Setup(c *config.Config) {
	cfg = c
	weatherService = services.NewWeatherService(c)
	linearService = services.NewLinearService(c)
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}
