package handler

import (
	"net/http"

	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

// RootHandler documente sommairement l'API
func RootHandler(w http.ResponseWriter, r *http.Request) {
	utils.Success(w, map[string]interface{}{
		"name": "no-name running club API",
		"endpoints": map[string]string{
			"GET /health":           "health check",
			"POST /auth/signup":     "inscription email + mot de passe",
			"POST /auth/login":      "connexion email + mot de passe",
			"POST /auth/provider":   "échange sign-in provider OAuth",
			"POST /auth/logout":     "déconnexion (auth)",
			"GET /home":             "challenges actifs avec classements",
			"GET /leaderboard":      "classement du challenge courant",
			"GET /records/all-time": "record de froid toutes saisons",
			"GET /records/coldest":  "record personnel (auth)",
			"POST /runs":            "logger/mettre à jour une course (auth)",
			"GET /runs":             "mes courses du challenge courant (auth)",
			"GET /weather":          "pré-remplissage météo par code postal (auth)",
			"POST /feedback":        "soumettre un feedback (auth)",
			"GET /users/me":         "mon profil (auth)",
			"PATCH /users/me":       "mes settings (auth)",
			"/admin/...":            "back office (admin)",
		},
	})
}
