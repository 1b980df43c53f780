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
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/stats"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

// GetOverviewStats renvoie les compteurs globaux du back office (admin)
func GetOverviewStats(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	var s model.OverviewStats
	err := database.DB.QueryRow(context.Background(), `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM runs),
			(SELECT COUNT(*) FROM challenges),
			(SELECT COUNT(*) FROM users WHERE created_at >= date_trunc('month', NOW())),
			(SELECT COUNT(*) FROM runs WHERE created_at >= date_trunc('month', NOW()))`).
		Scan(&s.TotalUsers, &s.TotalRuns, &s.TotalChallenges, &s.NewUsersThisMonth, &s.RunsThisMonth)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load overview stats", err)
		return
	}

	s.AverageRunsPerUser = stats.AverageRunsPerUser(s.TotalRuns, s.TotalUsers)
	s.GeneratedAt = time.Now()

	utils.Success(w, s)
}

// GetChallengeParticipation renvoie la participation d'un challenge (admin)
func GetChallengeParticipation(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	vars := mux.Vars(r)
	challengeID := vars["id"]

	participation, err := challengeParticipation(context.Background(), challengeID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not compute participation", err)
		return
	}
	if participation == nil {
		utils.ErrorSimple(w, http.StatusNotFound, "challenge not found")
		return
	}

	utils.Success(w, participation)
}

// GetAllParticipation renvoie la participation de tous les challenges,
// du plus récent au plus ancien (admin)
func GetAllParticipation(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	ctx := context.Background()

	rows, err := database.DB.Query(ctx,
		`SELECT id FROM challenges ORDER BY created_at DESC`)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query challenges", err)
		return
	}

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			utils.Error(w, http.StatusInternalServerError, "could not scan challenge", err)
			return
		}
		ids = append(ids, id)
	}
	rows.Close()

	result := []model.ChallengeParticipation{}
	for _, id := range ids {
		participation, err := challengeParticipation(ctx, id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not compute participation", err)
			return
		}
		if participation != nil {
			result = append(result, *participation)
		}
	}

	utils.Success(w, result)
}

// GetEngagement renvoie les fenêtres d'activité 7 / 30 jours (admin)
func GetEngagement(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	var e model.UserEngagement
	err := database.DB.QueryRow(context.Background(), `
		SELECT
			(SELECT COUNT(DISTINCT uc.user_id) FROM runs r
				JOIN user_challenges uc ON uc.id = r.user_challenge_id
				WHERE r.created_at >= NOW() - INTERVAL '7 days'),
			(SELECT COUNT(DISTINCT uc.user_id) FROM runs r
				JOIN user_challenges uc ON uc.id = r.user_challenge_id
				WHERE r.created_at >= NOW() - INTERVAL '30 days'),
			(SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '7 days'),
			(SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '30 days'),
			(SELECT COUNT(*) FROM runs WHERE created_at >= NOW() - INTERVAL '7 days'),
			(SELECT COUNT(*) FROM runs WHERE created_at >= NOW() - INTERVAL '30 days')`).
		Scan(&e.ActiveUsers7Days, &e.ActiveUsers30Days,
			&e.NewUsers7Days, &e.NewUsers30Days, &e.Runs7Days, &e.Runs30Days)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load engagement", err)
		return
	}

	utils.Success(w, e)
}

// GetRunsByDay renvoie la série jour par jour des courses loggées (admin).
// ?days= contrôle la fenêtre, 30 par défaut, bornée à 365.
func GetRunsByDay(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			utils.ErrorSimple(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = parsed
	}

	rows, err := database.DB.Query(context.Background(),
		`SELECT date FROM runs WHERE date >= NOW() - ($1 || ' days')::interval`,
		strconv.Itoa(days))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query runs", err)
		return
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan run date", err)
			return
		}
		dates = append(dates, d)
	}

	utils.Success(w, stats.RunsByDay(dates, time.Now(), days))
}

// GetTemperatureDistribution renvoie l'histogramme des températures de toutes
// les courses (admin)
func GetTemperatureDistribution(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	rows, err := database.DB.Query(context.Background(),
		`SELECT temperature FROM runs WHERE temperature IS NOT NULL`)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query temperatures", err)
		return
	}
	defer rows.Close()

	temps := []int{}
	for rows.Next() {
		var t int
		if err := rows.Scan(&t); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan temperature", err)
			return
		}
		temps = append(temps, t)
	}

	utils.Success(w, stats.TemperatureDistribution(temps))
}

// challengeParticipation agrège la participation d'un challenge, nil si le
// challenge n'existe pas
func challengeParticipation(ctx context.Context, challengeID string) (*model.ChallengeParticipation, error) {
	row := database.DB.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, challengeID)
	challenge, err := scanner.ScanChallenge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := database.DB.Query(ctx, `
		SELECT uc.days_count, COUNT(r.id)
		FROM user_challenges uc
		LEFT JOIN runs r ON r.user_challenge_id = uc.id
		WHERE uc.challenge_id = $1
		GROUP BY uc.id, uc.days_count`,
		challengeID)
	if err != nil {
		return nil, err
	}

	enrollments := []stats.EnrollmentProgress{}
	for rows.Next() {
		var e stats.EnrollmentProgress
		if err := rows.Scan(&e.DaysCount, &e.RunCount); err != nil {
			rows.Close()
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	rows.Close()

	tempRows, err := database.DB.Query(ctx, `
		SELECT r.temperature
		FROM runs r
		JOIN user_challenges uc ON uc.id = r.user_challenge_id
		WHERE uc.challenge_id = $1 AND r.temperature IS NOT NULL`,
		challengeID)
	if err != nil {
		return nil, err
	}
	defer tempRows.Close()

	temps := []int{}
	for tempRows.Next() {
		var t int
		if err := tempRows.Scan(&t); err != nil {
			return nil, err
		}
		temps = append(temps, t)
	}

	participation := stats.Participation(enrollments, temps)
	participation.ChallengeID = challenge.ID
	participation.Title = utils.FormatChallengeTitle(*challenge)

	return &participation, nil
}
