package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLinearService(endpoint string) *LinearService {
	return &LinearService{
		apiKey:   "lin_api_test",
		teamKey:  "RUN",
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Second},
	}
}

func TestCreateIssue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lin_api_test", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))

		if strings.Contains(payload.Query, "teams(filter") {
			assert.Equal(t, "RUN", payload.Variables["key"])
			w.Write([]byte(`{"data":{"teams":{"nodes":[{"id":"team-123"}]}}}`))
			return
		}

		input := payload.Variables["input"].(map[string]interface{})
		assert.Equal(t, "team-123", input["teamId"])
		assert.Equal(t, "[BUG] leaderboard is empty", input["title"])
		w.Write([]byte(`{"data":{"issueCreate":{"success":true,"issue":{"url":"https://linear.app/club/issue/RUN-42"}}}}`))
	}))
	defer srv.Close()

	url, err := testLinearService(srv.URL).CreateIssue(context.Background(),
		"[BUG] leaderboard is empty", "details")

	require.NoError(t, err)
	assert.Equal(t, "https://linear.app/club/issue/RUN-42", url)
}

func TestCreateIssue_NoAPIKey(t *testing.T) {
	svc := testLinearService("http://unused")
	svc.apiKey = ""

	_, err := svc.CreateIssue(context.Background(), "title", "desc")
	assert.Error(t, err)
}

func TestCreateIssue_TeamNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"teams":{"nodes":[]}}}`))
	}))
	defer srv.Close()

	_, err := testLinearService(srv.URL).CreateIssue(context.Background(), "title", "desc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCreateIssue_GraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
	}))
	defer srv.Close()

	_, err := testLinearService(srv.URL).CreateIssue(context.Background(), "title", "desc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
