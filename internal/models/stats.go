package model

import "time"

// OverviewStats contient les statistiques générales du back office
type OverviewStats struct {
	TotalUsers         int       `json:"totalUsers"`
	TotalRuns          int       `json:"totalRuns"`
	TotalChallenges    int       `json:"totalChallenges"`
	AverageRunsPerUser float64   `json:"averageRunsPerUser"` // arrondi à 1 décimale, 0 si aucun utilisateur
	NewUsersThisMonth  int       `json:"newUsersThisMonth"`
	RunsThisMonth      int       `json:"runsThisMonth"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

// ChallengeParticipation agrège la participation à un challenge donné
type ChallengeParticipation struct {
	ChallengeID        string `json:"challengeId"`
	Title              string `json:"title"`
	TotalParticipants  int    `json:"totalParticipants"`
	TotalRuns          int    `json:"totalRuns"`
	CompletedUsers     int    `json:"completedUsers"` // inscriptions ayant atteint leur objectif snapshot
	CompletionRate     int    `json:"completionRate"` // pourcentage arrondi, 0 sans participant
	AverageTemperature *int   `json:"averageTemperature"`
	ColdestTemperature *int   `json:"coldestTemperature"`
}

// UserEngagement : fenêtres glissantes 7 / 30 jours
type UserEngagement struct {
	ActiveUsers7Days  int `json:"activeUsers7Days"`
	ActiveUsers30Days int `json:"activeUsers30Days"`
	NewUsers7Days     int `json:"newUsers7Days"`
	NewUsers30Days    int `json:"newUsers30Days"`
	Runs7Days         int `json:"runs7Days"`
	Runs30Days        int `json:"runs30Days"`
}

// DataPoint est un point de série temporelle pour les bar charts
type DataPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// TemperatureBucket est un intervalle de l'histogramme des températures
type TemperatureBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
