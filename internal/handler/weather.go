package handler

import (
	"net/http"

	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

// GetWeather pré-remplit la température : code postal passé en query, ou
// celui du profil à défaut. Renvoie null quand le lookup échoue, le client
// laisse alors l'utilisateur saisir à la main.
func GetWeather(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	zip := r.URL.Query().Get("zip")
	if zip == "" {
		zip = user.ZipCode
	}
	if zip == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "no zip code provided and none on profile")
		return
	}

	utils.Success(w, weatherService.Lookup(r.Context(), zip))
}
