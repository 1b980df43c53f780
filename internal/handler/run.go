package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/database"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/scanner"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

const runColumns = "id, user_challenge_id, position, date, temperature, distance, duration, created_at, updated_at"

// SaveRun enregistre une course sur un slot du challenge courant.
// Upsert sur (user_challenge_id, position) : re-logger le même jour écrase la
// course précédente au lieu d'en créer une deuxième.
func SaveRun(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req model.SaveRunRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if req.Position < 1 {
		utils.ErrorSimple(w, http.StatusBadRequest, "position must be a positive number")
		return
	}

	runDate := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.ErrorSimple(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
		runDate = parsed
	}

	ctx := context.Background()

	// L'inscription au challenge courant, pas un id fourni par le client :
	// un utilisateur ne peut écrire que dans sa propre inscription
	var userChallengeID string
	err = database.DB.QueryRow(ctx, `
		SELECT uc.id
		FROM user_challenges uc
		JOIN challenges c ON c.id = uc.challenge_id
		WHERE uc.user_id = $1 AND c.current = true`,
		user.ID).Scan(&userChallengeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.ErrorSimple(w, http.StatusBadRequest, "no active challenge enrollment")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not resolve enrollment", err)
		return
	}

	row := database.DB.QueryRow(ctx, `
		INSERT INTO runs(user_challenge_id, position, date, temperature, distance, duration, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_challenge_id, position) DO UPDATE SET
			date = EXCLUDED.date,
			temperature = EXCLUDED.temperature,
			distance = EXCLUDED.distance,
			duration = EXCLUDED.duration,
			updated_at = NOW()
		RETURNING `+runColumns,
		userChallengeID, req.Position, runDate,
		utils.PointerToNullInt64(req.Temperature),
		utils.PointerToNullFloat64(req.Distance),
		utils.PointerToNullInt64(req.Duration),
	)

	run, err := scanner.ScanRun(row)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save run", err)
		return
	}

	utils.Success(w, run)
}

// GetMyRuns renvoie les courses de l'utilisateur sur le challenge courant,
// triées par position
func GetMyRuns(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rows, err := database.DB.Query(context.Background(), `
		SELECT r.id, r.user_challenge_id, r.position, r.date, r.temperature,
		       r.distance, r.duration, r.created_at, r.updated_at
		FROM runs r
		JOIN user_challenges uc ON uc.id = r.user_challenge_id
		JOIN challenges c ON c.id = uc.challenge_id
		WHERE uc.user_id = $1 AND c.current = true
		ORDER BY r.position ASC`,
		user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query runs", err)
		return
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		run, err := scanner.ScanRun(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan run", err)
			return
		}
		runs = append(runs, *run)
	}

	utils.Success(w, runs)
}

// AdminUpdateRun corrige une course (admin) : température, date ou position.
// Un déplacement vers une position déjà occupée est refusé plutôt qu'écrasé.
func AdminUpdateRun(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	vars := mux.Vars(r)
	runID := vars["id"]

	var req model.UpdateRunRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	ctx := context.Background()

	current, err := fetchRun(ctx, runID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.ErrorSimple(w, http.StatusNotFound, "run not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not load run", err)
		return
	}

	if req.Position != nil && *req.Position != current.Position {
		if *req.Position < 1 {
			utils.ErrorSimple(w, http.StatusBadRequest, "position must be a positive number")
			return
		}
		var taken bool
		err := database.DB.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM runs
				WHERE user_challenge_id = $1 AND position = $2 AND id <> $3
			)`,
			current.UserChallengeID, *req.Position, runID).Scan(&taken)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not check position", err)
			return
		}
		if taken {
			utils.ErrorSimple(w, http.StatusConflict, "another run already occupies this position")
			return
		}
	}

	query := `UPDATE runs SET updated_at = NOW()`
	args := []interface{}{}
	argCount := 1

	if req.Temperature != nil {
		query += `, temperature = $` + strconv.Itoa(argCount)
		args = append(args, *req.Temperature)
		argCount++
	}
	if req.Position != nil {
		query += `, position = $` + strconv.Itoa(argCount)
		args = append(args, *req.Position)
		argCount++
	}
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			utils.ErrorSimple(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
		query += `, date = $` + strconv.Itoa(argCount)
		args = append(args, parsed)
		argCount++
	}

	query += ` WHERE id = $` + strconv.Itoa(argCount) + ` RETURNING ` + runColumns
	args = append(args, runID)

	row := database.DB.QueryRow(ctx, query, args...)
	run, err := scanner.ScanRun(row)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update run", err)
		return
	}

	utils.Success(w, run)
}

// AdminDeleteRun supprime une course (admin)
func AdminDeleteRun(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	vars := mux.Vars(r)
	runID := vars["id"]

	res, err := database.DB.Exec(context.Background(),
		`DELETE FROM runs WHERE id = $1`, runID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete run", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "run not found")
		return
	}

	utils.Success(w, map[string]bool{"success": true})
}

func fetchRun(ctx context.Context, runID string) (*model.Run, error) {
	row := database.DB.QueryRow(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = $1`, runID)
	return scanner.ScanRun(row)
}
