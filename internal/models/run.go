package model

import "time"

// Run est une course loggée sur un slot ("jour N") d'une inscription.
// Une seule course par (userChallengeId, position).
type Run struct {
	ID              string    `json:"id"`
	UserChallengeID string    `json:"userChallengeId"`
	Position        int       `json:"position"` // index 1-based dans le challenge
	Date            time.Time `json:"date"`
	Temperature     *int      `json:"temperature,omitempty"` // °F
	Distance        *float64  `json:"distance,omitempty"`
	Duration        *int      `json:"duration,omitempty"` // secondes
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type SaveRunRequest struct {
	Position    int      `json:"position"`
	Temperature *int     `json:"temperature,omitempty"`
	Date        string   `json:"date,omitempty"` // YYYY-MM-DD, défaut aujourd'hui
	Distance    *float64 `json:"distance,omitempty"`
	Duration    *int     `json:"duration,omitempty"`
}

// UpdateRunRequest pour la modération admin
type UpdateRunRequest struct {
	Temperature *int    `json:"temperature,omitempty"`
	Position    *int    `json:"position,omitempty"`
	Date        *string `json:"date,omitempty"`
}
