package model

import "time"

const (
	SeasonWinter = "winter"
	SeasonSummer = "summer"
)

type Challenge struct {
	ID          string    `json:"id"`
	Season      string    `json:"season"` // winter | summer
	Year        string    `json:"year"`   // "2026" ou "2025/2026" pour les challenges à cheval
	DaysCount   int       `json:"daysCount"`
	Current     bool      `json:"current"`
	StravaURL   *string   `json:"stravaUrl,omitempty"`
	StravaEmbed *string   `json:"stravaEmbed,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserChallenge est l'inscription d'un utilisateur à un challenge.
// DaysCount est un snapshot du challenge au moment de l'inscription :
// modifier le challenge plus tard ne change pas l'objectif déjà inscrit.
type UserChallenge struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ChallengeID string    `json:"challengeId"`
	DaysCount   int       `json:"daysCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateChallengeRequest struct {
	Season      string  `json:"season"`
	Year        string  `json:"year"`
	DaysCount   int     `json:"daysCount"`
	Current     bool    `json:"current"`
	StravaURL   *string `json:"stravaUrl,omitempty"`
	StravaEmbed *string `json:"stravaEmbed,omitempty"`
	EnrollAll   bool    `json:"enrollAll"` // inscrire tous les utilisateurs dans la même transaction
}

type EnrollRequest struct {
	UserIDs []string `json:"userIds,omitempty"` // vide = tous les utilisateurs
}
