package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/database"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/scanner"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

const challengeColumns = "id, season, year, days_count, current, strava_url, strava_embed, created_at"

// GetChallenges liste tous les challenges (admin)
func GetChallenges(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	rows, err := database.DB.Query(context.Background(),
		`SELECT `+challengeColumns+` FROM challenges ORDER BY created_at DESC`)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query challenges", err)
		return
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		c, err := scanner.ScanChallenge(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan challenge", err)
			return
		}
		challenges = append(challenges, *c)
	}

	utils.Success(w, challenges)
}

// CreateChallenge crée un challenge (admin). Si current est demandé, le flag
// est basculé dans la même transaction que l'insertion ; si enrollAll est
// demandé, l'inscription de tous les utilisateurs fait aussi partie de la
// transaction.
func CreateChallenge(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	var req model.CreateChallengeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if req.Season != model.SeasonWinter && req.Season != model.SeasonSummer {
		utils.ErrorSimple(w, http.StatusBadRequest, "season must be winter or summer")
		return
	}
	if req.Year == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "year is required")
		return
	}
	if req.DaysCount <= 0 {
		utils.ErrorSimple(w, http.StatusBadRequest, "daysCount must be a positive number")
		return
	}

	ctx := context.Background()

	tx, err := database.DB.Begin(ctx)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not start transaction", err)
		return
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM challenges WHERE season = $1 AND year = $2)`,
		req.Season, req.Year).Scan(&exists); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not check existing challenge", err)
		return
	}
	if exists {
		utils.ErrorSimple(w, http.StatusBadRequest, "a challenge already exists for this season and year")
		return
	}

	// Jamais deux challenges courants : on éteint les autres avant
	// d'allumer celui-ci, dans la même transaction
	if req.Current {
		if _, err := tx.Exec(ctx, `UPDATE challenges SET current = false WHERE current = true`); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not clear current flag", err)
			return
		}
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO challenges(season, year, days_count, current, strava_url, strava_embed, created_at)
		VALUES($1, $2, $3, $4, $5, $6, NOW())
		RETURNING `+challengeColumns,
		req.Season, req.Year, req.DaysCount, req.Current,
		utils.PointerToNullString(req.StravaURL), utils.PointerToNullString(req.StravaEmbed),
	)

	challenge, err := scanner.ScanChallenge(row)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create challenge", err)
		return
	}

	if req.EnrollAll {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_challenges(user_id, challenge_id, days_count, created_at)
			SELECT id, $1, $2, NOW() FROM users
			ON CONFLICT (user_id, challenge_id) DO NOTHING`,
			challenge.ID, challenge.DaysCount); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not enroll users", err)
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not commit challenge creation", err)
		return
	}

	utils.Success(w, challenge)
}

// SetCurrentChallenge bascule le flag current vers ce challenge (admin).
// Clear puis set dans une seule transaction : aucune lecture concurrente ne
// voit zéro ou deux challenges courants.
func SetCurrentChallenge(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	vars := mux.Vars(r)
	challengeID := vars["id"]

	ctx := context.Background()

	tx, err := database.DB.Begin(ctx)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not start transaction", err)
		return
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE challenges SET current = false WHERE current = true AND id <> $1`, challengeID); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not clear current flag", err)
		return
	}

	row := tx.QueryRow(ctx,
		`UPDATE challenges SET current = true WHERE id = $1 RETURNING `+challengeColumns, challengeID)

	challenge, err := scanner.ScanChallenge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.ErrorSimple(w, http.StatusNotFound, "challenge not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not set current challenge", err)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not commit current flag", err)
		return
	}

	utils.Success(w, challenge)
}

// DeleteChallenge supprime un challenge (admin) ; inscriptions et courses
// suivent en cascade
func DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	vars := mux.Vars(r)
	challengeID := vars["id"]

	res, err := database.DB.Exec(context.Background(),
		`DELETE FROM challenges WHERE id = $1`, challengeID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete challenge", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "challenge not found")
		return
	}

	utils.Success(w, map[string]bool{"success": true})
}

// EnrollUsers inscrit des utilisateurs à un challenge (admin) : une liste
// d'ids, ou tous les utilisateurs si la liste est vide. days_count est
// snapshotté, et l'upsert rend l'appel idempotent.
func EnrollUsers(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	vars := mux.Vars(r)
	challengeID := vars["id"]

	var req model.EnrollRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	ctx := context.Background()

	var daysCount int
	err := database.DB.QueryRow(ctx,
		`SELECT days_count FROM challenges WHERE id = $1`, challengeID).Scan(&daysCount)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "challenge not found")
		return
	}

	var enrolled int64
	if len(req.UserIDs) == 0 {
		res, err := database.DB.Exec(ctx, `
			INSERT INTO user_challenges(user_id, challenge_id, days_count, created_at)
			SELECT id, $1, $2, NOW() FROM users
			ON CONFLICT (user_id, challenge_id) DO NOTHING`,
			challengeID, daysCount)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not enroll users", err)
			return
		}
		enrolled = res.RowsAffected()
	} else {
		res, err := database.DB.Exec(ctx, `
			INSERT INTO user_challenges(user_id, challenge_id, days_count, created_at)
			SELECT id, $1, $2, NOW() FROM users WHERE id = ANY($3)
			ON CONFLICT (user_id, challenge_id) DO NOTHING`,
			challengeID, daysCount, req.UserIDs)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not enroll users", err)
			return
		}
		enrolled = res.RowsAffected()
	}

	utils.Success(w, map[string]int64{"enrolled": enrolled})
}
