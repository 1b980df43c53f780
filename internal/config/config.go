package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config porte toute la configuration du serveur, chargée depuis
// l'environnement (un .env local est lu s'il existe)
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Emails promus admin à l'inscription (ADMIN_EMAILS, séparés par des
	// virgules)
	AdminEmails []string

	OpenWeatherAPIKey string

	LinearAPIKey  string
	LinearTeamKey string

	MetricsUser string
	MetricsPass string
}

func LoadConfig() (*Config, error) {
	// .env absent en production : pas une erreur
	godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		LinearAPIKey:      os.Getenv("LINEAR_API_KEY"),
		LinearTeamKey:     getEnv("LINEAR_TEAM_KEY", "RUN"),
		MetricsUser:       os.Getenv("METRICS_USER"),
		MetricsPass:       os.Getenv("METRICS_PASS"),
	}

	if raw := os.Getenv("ADMIN_EMAILS"); raw != "" {
		for _, email := range strings.Split(raw, ",") {
			email = strings.TrimSpace(strings.ToLower(email))
			if email != "" {
				cfg.AdminEmails = append(cfg.AdminEmails, email)
			}
		}
	}

	if cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}

	return cfg, nil
}

// IsAdminEmail indique si cet email doit recevoir le rôle admin à la création
// du compte
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(email)
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
