package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/config"
)

// LinearService crée des issues Linear à partir des feedbacks du club.
// L'échec n'est jamais fatal pour le feedback lui-même : l'appelant
// enregistre le statut et un admin peut relancer.
type LinearService struct {
	apiKey   string
	teamKey  string
	endpoint string
	client   *http.Client
}

func NewLinearService(cfg *config.Config) *LinearService {
	return &LinearService{
		apiKey:   cfg.LinearAPIKey,
		teamKey:  cfg.LinearTeamKey,
		endpoint: "https://api.linear.app/graphql",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateIssue crée une issue dans la team configurée et retourne son URL
func (s *LinearService) CreateIssue(ctx context.Context, title, description string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("linear api key is not configured")
	}

	teamID, err := s.teamID(ctx)
	if err != nil {
		return "", err
	}

	var result struct {
		IssueCreate struct {
			Success bool `json:"success"`
			Issue   struct {
				URL string `json:"url"`
			} `json:"issue"`
		} `json:"issueCreate"`
	}

	mutation := `mutation IssueCreate($input: IssueCreateInput!) {
		issueCreate(input: $input) { success issue { url } }
	}`
	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"teamId":      teamID,
			"title":       title,
			"description": description,
		},
	}

	if err := s.graphql(ctx, mutation, variables, &result); err != nil {
		return "", err
	}
	if !result.IssueCreate.Success {
		return "", fmt.Errorf("linear rejected the issue creation")
	}

	return result.IssueCreate.Issue.URL, nil
}

// teamID résout la clé de team (ex: "RUN") vers son id Linear
func (s *LinearService) teamID(ctx context.Context) (string, error) {
	var result struct {
		Teams struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		} `json:"teams"`
	}

	query := `query TeamByKey($key: String!) {
		teams(filter: { key: { eq: $key } }) { nodes { id } }
	}`

	if err := s.graphql(ctx, query, map[string]interface{}{"key": s.teamKey}, &result); err != nil {
		return "", err
	}
	if len(result.Teams.Nodes) == 0 {
		return "", fmt.Errorf("linear team %q not found", s.teamKey)
	}

	return result.Teams.Nodes[0].ID, nil
}

func (s *LinearService) graphql(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("could not encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("linear request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("linear returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("could not decode linear response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("linear error: %s", envelope.Errors[0].Message)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("could not decode linear data: %w", err)
	}

	return nil
}
