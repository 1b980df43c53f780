package model

import "time"

const (
	LinearStatusCreated = "created"
	LinearStatusFailed  = "failed"
)

type Feedback struct {
	ID             string    `json:"id"`
	UserID         *string   `json:"userId,omitempty"`
	Category       string    `json:"category"` // bug, idea, praise, other
	Message        string    `json:"message"`
	PagePath       *string   `json:"pagePath,omitempty"`
	UserAgent      *string   `json:"userAgent,omitempty"`
	LinearIssueURL *string   `json:"linearIssueUrl,omitempty"`
	LinearStatus   string    `json:"linearStatus"` // created | failed
	LinearError    *string   `json:"linearError,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CreateFeedbackRequest struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	PagePath string `json:"pagePath,omitempty"`
}

// FeedbackResult est renvoyé au client après soumission : l'échec Linear
// n'est pas fatal, le feedback est persisté dans tous les cas
type FeedbackResult struct {
	FeedbackID     string  `json:"feedbackId"`
	LinearIssueURL *string `json:"linearIssueUrl"`
	LinearStatus   string  `json:"linearStatus"`
}
