package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/database"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/logger"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/scanner"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

const feedbackColumns = `id, user_id, category, message, page_path, user_agent,
	linear_issue_url, linear_status, linear_error, created_at, updated_at`

var feedbackCategories = map[string]bool{
	"bug":    true,
	"idea":   true,
	"praise": true,
	"other":  true,
}

// CreateFeedback persiste le feedback puis tente de créer l'issue Linear.
// La ligne est écrite AVANT l'appel Linear : un échec réseau marque le
// feedback failed au lieu de le perdre, et il reste rejouable.
func CreateFeedback(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req model.CreateFeedbackRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "message is required")
		return
	}
	if len(req.Message) > 5000 {
		utils.ErrorSimple(w, http.StatusBadRequest, "message must be at most 5000 characters")
		return
	}
	if !feedbackCategories[req.Category] {
		utils.ErrorSimple(w, http.StatusBadRequest, "category must be bug, idea, praise or other")
		return
	}

	ctx := context.Background()

	var feedbackID string
	err = database.DB.QueryRow(ctx, `
		INSERT INTO feedback(user_id, category, message, page_path, user_agent, linear_status, created_at, updated_at)
		VALUES($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NOW(), NOW())
		RETURNING id`,
		user.ID, req.Category, req.Message, req.PagePath, r.UserAgent(),
		model.LinearStatusFailed).Scan(&feedbackID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save feedback", err)
		return
	}

	result := model.FeedbackResult{
		FeedbackID:   feedbackID,
		LinearStatus: model.LinearStatusFailed,
	}

	issueURL, err := pushFeedbackToLinear(ctx, feedbackID, &user, req.Category, req.Message, req.PagePath)
	if err != nil {
		logger.Warning("Linear issue creation failed for feedback %s: %v", feedbackID, err)
	} else {
		result.LinearIssueURL = &issueURL
		result.LinearStatus = model.LinearStatusCreated
	}

	utils.Success(w, result)
}

// GetFeedback liste les feedbacks, filtrables par statut Linear (admin)
func GetFeedback(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	query := `SELECT ` + feedbackColumns + ` FROM feedback`
	args := []interface{}{}

	if status := r.URL.Query().Get("status"); status != "" {
		if status != model.LinearStatusCreated && status != model.LinearStatusFailed {
			utils.ErrorSimple(w, http.StatusBadRequest, "status must be created or failed")
			return
		}
		query += ` WHERE linear_status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := database.DB.Query(context.Background(), query, args...)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query feedback", err)
		return
	}
	defer rows.Close()

	feedbacks := []model.Feedback{}
	for rows.Next() {
		f, err := scanner.ScanFeedback(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan feedback", err)
			return
		}
		feedbacks = append(feedbacks, *f)
	}

	utils.Success(w, feedbacks)
}

// RetryFeedback rejoue la création Linear d'un feedback failed (admin).
// Idempotent : un feedback déjà créé renvoie son URL existante sans créer
// de doublon.
func RetryFeedback(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	vars := mux.Vars(r)
	feedbackID := vars["id"]

	ctx := context.Background()

	row := database.DB.QueryRow(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`, feedbackID)
	feedback, err := scanner.ScanFeedback(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.ErrorSimple(w, http.StatusNotFound, "feedback not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not load feedback", err)
		return
	}

	if feedback.LinearStatus == model.LinearStatusCreated && feedback.LinearIssueURL != nil {
		utils.Success(w, model.FeedbackResult{
			FeedbackID:     feedback.ID,
			LinearIssueURL: feedback.LinearIssueURL,
			LinearStatus:   model.LinearStatusCreated,
		})
		return
	}

	var author *model.User
	if feedback.UserID != nil {
		userRow := database.DB.QueryRow(ctx,
			`SELECT id, name, email, image, role, unit_preference, zip_code, created_at
			 FROM users WHERE id = $1`, *feedback.UserID)
		if u, err := scanner.ScanUser(userRow); err == nil {
			author = u
		}
	}

	pagePath := ""
	if feedback.PagePath != nil {
		pagePath = *feedback.PagePath
	}

	issueURL, err := pushFeedbackToLinear(ctx, feedback.ID, author, feedback.Category, feedback.Message, pagePath)
	if err != nil {
		utils.Error(w, http.StatusBadGateway, "Linear issue creation failed", err)
		return
	}

	utils.Success(w, model.FeedbackResult{
		FeedbackID:     feedback.ID,
		LinearIssueURL: &issueURL,
		LinearStatus:   model.LinearStatusCreated,
	})
}

// pushFeedbackToLinear crée l'issue puis reporte le résultat sur la ligne
// feedback. Les deux branches mettent à jour linear_status : la table reste
// la source de vérité de ce qui a atteint Linear.
func pushFeedbackToLinear(ctx context.Context, feedbackID string, author *model.User, category, message, pagePath string) (string, error) {
	title := fmt.Sprintf("[%s] %s", strings.ToUpper(category), utils.Truncate(message, 80))

	var description strings.Builder
	description.WriteString(message)
	description.WriteString("\n\n---\n")
	if author != nil {
		description.WriteString(fmt.Sprintf("Reported by: %s (%s)\n", author.Name, author.Email))
	}
	if pagePath != "" {
		description.WriteString(fmt.Sprintf("Page: %s\n", pagePath))
	}
	description.WriteString(fmt.Sprintf("Feedback ID: %s\n", feedbackID))

	issueURL, err := linearService.CreateIssue(ctx, title, description.String())
	if err != nil {
		database.DB.Exec(ctx, `
			UPDATE feedback SET linear_status = $1, linear_error = $2, updated_at = NOW()
			WHERE id = $3`,
			model.LinearStatusFailed, err.Error(), feedbackID)
		return "", err
	}

	_, updateErr := database.DB.Exec(ctx, `
		UPDATE feedback SET linear_status = $1, linear_issue_url = $2, linear_error = NULL, updated_at = NOW()
		WHERE id = $3`,
		model.LinearStatusCreated, issueURL, feedbackID)
	if updateErr != nil {
		logger.Warning("could not record Linear issue for feedback %s: %v", feedbackID, updateErr)
	}

	return issueURL, nil
}
