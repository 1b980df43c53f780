package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/database"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/export"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/scanner"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/stats"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

// writeExport envoie le payload sérialisé avec le Content-Type du format et
// un Content-Disposition en attachment
func writeExport(w http.ResponseWriter, format export.Format, filename string, payload []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filename+"."+string(format)))
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func exportFormat(r *http.Request) (export.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = "csv"
	}
	return export.ParseFormat(raw)
}

// ExportUsers exporte le roster complet : chaque utilisateur avec les titres
// de ses challenges et son total de courses (admin)
func ExportUsers(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	format, err := exportFormat(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid format", err)
		return
	}

	rows, err := database.DB.Query(context.Background(), `
		SELECT u.id, u.name, u.email, u.role,
		       ARRAY_REMOVE(ARRAY_AGG(DISTINCT
		           CASE WHEN c.id IS NOT NULL
		                THEN INITCAP(c.season) || ' ' || c.year || ' Challenge'
		           END), NULL),
		       COUNT(DISTINCT r.id),
		       u.created_at
		FROM users u
		LEFT JOIN user_challenges uc ON uc.user_id = u.id
		LEFT JOIN challenges c ON c.id = uc.challenge_id
		LEFT JOIN runs r ON r.user_challenge_id = uc.id
		GROUP BY u.id, u.name, u.email, u.role, u.created_at
		ORDER BY u.created_at ASC`)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query users", err)
		return
	}
	defer rows.Close()

	roster := []model.UserExportRow{}
	for rows.Next() {
		row, err := scanner.ScanUserExportRow(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan user", err)
			return
		}
		roster = append(roster, *row)
	}

	var payload []byte
	if format == export.FormatCSV {
		payload, err = export.UsersCSV(roster)
	} else {
		payload, err = export.JSON(roster)
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not serialize export", err)
		return
	}

	writeExport(w, format, "users", payload)
}

// ExportChallengeRuns exporte le registre complet des courses d'un challenge,
// trié par utilisateur puis position (admin)
func ExportChallengeRuns(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	format, err := exportFormat(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid format", err)
		return
	}

	vars := mux.Vars(r)
	challengeID := vars["id"]

	ctx := context.Background()

	var exists bool
	if err := database.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM challenges WHERE id = $1)`, challengeID).Scan(&exists); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not check challenge", err)
		return
	}
	if !exists {
		utils.ErrorSimple(w, http.StatusNotFound, "challenge not found")
		return
	}

	rows, err := database.DB.Query(ctx, `
		SELECT r.id, u.name, u.email, r.position, r.date, r.temperature, r.distance, r.duration
		FROM runs r
		JOIN user_challenges uc ON uc.id = r.user_challenge_id
		JOIN users u ON u.id = uc.user_id
		WHERE uc.challenge_id = $1
		ORDER BY u.name ASC, r.position ASC`,
		challengeID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query runs", err)
		return
	}
	defer rows.Close()

	ledger := []model.RunLedgerRow{}
	for rows.Next() {
		var row model.RunLedgerRow
		var temperature, duration sql.NullInt64
		var distance sql.NullFloat64
		if err := rows.Scan(&row.RunID, &row.UserName, &row.UserEmail, &row.Position,
			&row.Date, &temperature, &distance, &duration); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan run", err)
			return
		}
		row.Temperature = utils.NullInt64ToPointer(temperature)
		row.Distance = utils.NullFloat64ToPointer(distance)
		row.Duration = utils.NullInt64ToPointer(duration)
		ledger = append(ledger, row)
	}

	var payload []byte
	if format == export.FormatCSV {
		payload, err = export.RunLedgerCSV(ledger)
	} else {
		payload, err = export.JSON(ledger)
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not serialize export", err)
		return
	}

	writeExport(w, format, "challenge-runs", payload)
}

// ExportChallengeLeaderboard exporte le classement d'un challenge avec emails,
// classé par totalRuns puis température la plus froide (admin)
func ExportChallengeLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	format, err := exportFormat(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid format", err)
		return
	}

	vars := mux.Vars(r)
	challengeID := vars["id"]

	ctx := context.Background()

	var exists bool
	if err := database.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM challenges WHERE id = $1)`, challengeID).Scan(&exists); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not check challenge", err)
		return
	}
	if !exists {
		utils.ErrorSimple(w, http.StatusNotFound, "challenge not found")
		return
	}

	rows, err := database.DB.Query(ctx, `
		SELECT u.name, u.email,
		       COUNT(r.id),
		       MIN(r.temperature),
		       ROUND(AVG(r.temperature)::numeric, 1)
		FROM user_challenges uc
		JOIN users u ON u.id = uc.user_id
		LEFT JOIN runs r ON r.user_challenge_id = uc.id
		WHERE uc.challenge_id = $1
		GROUP BY u.id, u.name, u.email`,
		challengeID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query leaderboard", err)
		return
	}
	defer rows.Close()

	entries := []model.LeaderboardExportRow{}
	for rows.Next() {
		var row model.LeaderboardExportRow
		var coldest sql.NullInt64
		var avg sql.NullFloat64
		if err := rows.Scan(&row.Name, &row.Email, &row.TotalRuns, &coldest, &avg); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan leaderboard row", err)
			return
		}
		row.ColdestTemperature = utils.NullInt64ToPointer(coldest)
		row.AverageTemperature = utils.NullFloat64ToPointer(avg)
		entries = append(entries, row)
	}

	ranked := stats.RankLeaderboardExport(entries)

	var payload []byte
	if format == export.FormatCSV {
		payload, err = export.LeaderboardCSV(ranked)
	} else {
		payload, err = export.JSON(ranked)
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not serialize export", err)
		return
	}

	writeExport(w, format, "challenge-leaderboard", payload)
}

// ExportChallenges exporte le résumé statistique de tous les challenges,
// du plus récent au plus ancien (admin)
func ExportChallenges(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	format, err := exportFormat(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid format", err)
		return
	}

	ctx := context.Background()

	rows, err := database.DB.Query(ctx,
		`SELECT `+challengeColumns+` FROM challenges ORDER BY created_at DESC`)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query challenges", err)
		return
	}

	challenges := []model.Challenge{}
	for rows.Next() {
		c, err := scanner.ScanChallenge(rows)
		if err != nil {
			rows.Close()
			utils.Error(w, http.StatusInternalServerError, "could not scan challenge", err)
			return
		}
		challenges = append(challenges, *c)
	}
	rows.Close()

	summary := []model.ChallengeSummaryRow{}
	for _, c := range challenges {
		participation, err := challengeParticipation(ctx, c.ID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not compute participation", err)
			return
		}
		if participation == nil {
			continue
		}
		summary = append(summary, model.ChallengeSummaryRow{
			ChallengeID:        c.ID,
			Title:              utils.FormatChallengeTitle(c),
			Season:             c.Season,
			Year:               c.Year,
			DaysCount:          c.DaysCount,
			Current:            c.Current,
			TotalParticipants:  participation.TotalParticipants,
			TotalRuns:          participation.TotalRuns,
			CompletedUsers:     participation.CompletedUsers,
			CompletionRate:     participation.CompletionRate,
			AverageTemperature: participation.AverageTemperature,
			ColdestTemperature: participation.ColdestTemperature,
		})
	}

	var payload []byte
	if format == export.FormatCSV {
		payload, err = export.ChallengeSummaryCSV(summary)
	} else {
		payload, err = export.JSON(summary)
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not serialize export", err)
		return
	}

	writeExport(w, format, "challenges", payload)
}
