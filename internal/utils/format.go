package utils

import (
	"strings"

	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
)

// FormatChallengeTitle construit le titre affiché d'un challenge :
// season "winter" + year "2025/2026" -> "Winter 2025/2026 Challenge"
func FormatChallengeTitle(c model.Challenge) string {
	season := c.Season
	if season != "" {
		season = strings.ToUpper(season[:1]) + season[1:]
	}
	return season + " " + c.Year + " Challenge"
}

// Truncate coupe une chaîne à max caractères avec une ellipse, pour les
// titres d'issues
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// FirstName extrait le prénom (premier token avant l'espace) pour le
// classement public : pas d'identité complète côté public
func FirstName(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.IndexByte(name, ' '); idx > 0 {
		return name[:idx]
	}
	return name
}
