package model

import "time"

// UserExportRow est une ligne du roster exporté (admin)
type UserExportRow struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Challenges []string  `json:"challenges"` // titres des challenges inscrits
	TotalRuns  int       `json:"totalRuns"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// RunLedgerRow est une ligne du registre complet des courses d'un challenge
type RunLedgerRow struct {
	RunID       string    `json:"runId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	Position    int       `json:"position"`
	Date        time.Time `json:"date"`
	Temperature *int      `json:"temperature"`
	Distance    *float64  `json:"distance"`
	Duration    *int      `json:"duration"`
}

// LeaderboardExportRow est une ligne du classement exporté : classement par
// totalRuns décroissant, égalité départagée par la température la plus
// froide (null dernier)
type LeaderboardExportRow struct {
	Rank               int      `json:"rank"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	TotalRuns          int      `json:"totalRuns"`
	ColdestTemperature *int     `json:"coldestTemperature"`
	AverageTemperature *float64 `json:"averageTemperature"`
}

// ChallengeSummaryRow résume un challenge pour l'export toutes-saisons
type ChallengeSummaryRow struct {
	ChallengeID        string `json:"challengeId"`
	Title              string `json:"title"`
	Season             string `json:"season"`
	Year               string `json:"year"`
	DaysCount          int    `json:"daysCount"`
	Current            bool   `json:"current"`
	TotalParticipants  int    `json:"totalParticipants"`
	TotalRuns          int    `json:"totalRuns"`
	CompletedUsers     int    `json:"completedUsers"`
	CompletionRate     int    `json:"completionRate"`
	AverageTemperature *int   `json:"averageTemperature"`
	ColdestTemperature *int   `json:"coldestTemperature"`
}
