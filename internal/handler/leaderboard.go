package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/database"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/scanner"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/stats"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

// GetHome alimente la homepage publique : challenges courants avec titre
// affichable et classement. L'invariant garde la liste à 0 ou 1 élément mais
// la lecture tolère un ensemble.
func GetHome(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()

	rows, err := database.DB.Query(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE current = true ORDER BY created_at DESC`)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load current challenges", err)
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

	home := []model.ChallengeWithLeaderboard{}
	for _, c := range challenges {
		entries, err := challengeLeaderboard(ctx, c.ID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not build leaderboard", err)
			return
		}
		home = append(home, model.ChallengeWithLeaderboard{
			Challenge:   c,
			Title:       utils.FormatChallengeTitle(c),
			Leaderboard: entries,
		})
	}

	utils.Success(w, home)
}

// GetLeaderboard renvoie le classement du challenge courant : la course la
// plus froide de chaque participant, prénom seulement
func GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()

	challenge, err := currentChallenge(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.Success(w, []model.LeaderboardEntry{})
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not load current challenge", err)
		return
	}

	entries, err := challengeLeaderboard(ctx, challenge.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not build leaderboard", err)
		return
	}

	utils.Success(w, entries)
}

// GetMyColdestRun renvoie la course la plus froide de l'utilisateur sur le
// challenge courant, ou null s'il n'a encore rien loggé avec température
func GetMyColdestRun(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rows, err := database.DB.Query(context.Background(), `
		SELECT r.id, r.position, r.date, r.temperature
		FROM runs r
		JOIN user_challenges uc ON uc.id = r.user_challenge_id
		JOIN challenges c ON c.id = uc.challenge_id
		WHERE uc.user_id = $1 AND c.current = true`,
		user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query runs", err)
		return
	}
	defer rows.Close()

	observations := []stats.RunObservation{}
	for rows.Next() {
		var obs stats.RunObservation
		if err := rows.Scan(&obs.RunID, &obs.Position, &obs.Date, &obs.Temperature); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan run", err)
			return
		}
		observations = append(observations, obs)
	}

	utils.Success(w, stats.ColdestRun(observations))
}

// GetAllTimeRecord renvoie la course la plus froide jamais enregistrée, tous
// challenges confondus. Égalités départagées par date puis id pour que le
// record soit stable.
func GetAllTimeRecord(w http.ResponseWriter, r *http.Request) {
	row := database.DB.QueryRow(context.Background(), `
		SELECT r.temperature, r.date, u.name, u.image,
		       c.id, c.season, c.year, c.days_count, c.current, c.strava_url, c.strava_embed, c.created_at
		FROM runs r
		JOIN user_challenges uc ON uc.id = r.user_challenge_id
		JOIN challenges c ON c.id = uc.challenge_id
		JOIN users u ON u.id = uc.user_id
		WHERE r.temperature IS NOT NULL
		ORDER BY r.temperature ASC, r.date ASC, r.id ASC
		LIMIT 1`)

	var record model.AllTimeRecord
	var challenge model.Challenge
	var image, stravaURL, stravaEmbed sql.NullString

	err := row.Scan(
		&record.Temperature, &record.Date, &record.UserName, &image,
		&challenge.ID, &challenge.Season, &challenge.Year, &challenge.DaysCount,
		&challenge.Current, &stravaURL, &stravaEmbed, &challenge.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.Success(w, nil)
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not load record", err)
		return
	}

	record.UserImage = utils.NullStringToPointer(image)
	record.ChallengeTitle = utils.FormatChallengeTitle(challenge)

	utils.Success(w, record)
}

func currentChallenge(ctx context.Context) (*model.Challenge, error) {
	row := database.DB.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE current = true`)
	return scanner.ScanChallenge(row)
}

func challengeLeaderboard(ctx context.Context, challengeID string) ([]model.LeaderboardEntry, error) {
	rows, err := database.DB.Query(ctx, `
		SELECT r.id, u.id, u.name, r.temperature, r.date
		FROM runs r
		JOIN user_challenges uc ON uc.id = r.user_challenge_id
		JOIN users u ON u.id = uc.user_id
		WHERE uc.challenge_id = $1 AND r.temperature IS NOT NULL`,
		challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []stats.LeaderboardRun{}
	for rows.Next() {
		var run stats.LeaderboardRun
		if err := rows.Scan(&run.RunID, &run.UserID, &run.UserName, &run.Temperature, &run.Date); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return stats.ChallengeLeaderboard(runs), nil
}
