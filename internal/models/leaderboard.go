package model

import "time"

// LeaderboardEntry est une ligne du classement public : prénom et
// température seulement, jamais l'email ni l'identité complète
type LeaderboardEntry struct {
	FirstName   string `json:"firstName"`
	Temperature int    `json:"temperature"`
}

// RunRecord est la course la plus froide d'un utilisateur dans le
// challenge courant
type RunRecord struct {
	Temperature int       `json:"temperature"`
	Date        time.Time `json:"date"`
	Position    int       `json:"position"`
}

// AllTimeRecord est la course la plus froide tous challenges et tous
// utilisateurs confondus
type AllTimeRecord struct {
	Temperature    int       `json:"temperature"`
	Date           time.Time `json:"date"`
	ChallengeTitle string    `json:"challengeTitle"`
	UserName       string    `json:"userName"`
	UserImage      *string   `json:"userImage,omitempty"`
}

// ChallengeWithLeaderboard alimente la homepage publique
type ChallengeWithLeaderboard struct {
	Challenge   Challenge          `json:"challenge"`
	Title       string             `json:"title"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
