package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/config"
	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

// WeatherService interroge OpenWeatherMap par code postal pour pré-remplir
// le champ température lors du log d'une course
type WeatherService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewWeatherService(cfg *config.Config) *WeatherService {
	return &WeatherService{
		apiKey:  cfg.OpenWeatherAPIKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type openWeatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Lookup retourne nil (sans erreur) sur clé absente, réponse non-2xx ou
// échec réseau : l'utilisateur saisit alors la température à la main
func (s *WeatherService) Lookup(ctx context.Context, zip string) *model.Weather {
	if s.apiKey == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s?zip=%s,us&units=imperial&appid=%s",
		s.baseURL, url.QueryEscape(zip), s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		utils.LogInfo("weather lookup failed for zip %s: %v", zip, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		utils.LogInfo("weather lookup for zip %s returned status %d", zip, resp.StatusCode)
		return nil
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}

	weather := &model.Weather{
		Temperature: int(math.Round(payload.Main.Temp)),
	}
	if len(payload.Weather) > 0 {
		weather.Description = payload.Weather[0].Description
		weather.Icon = payload.Weather[0].Icon
	}

	return weather
}
