package export

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)

	_, err = ParseFormat("")
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}

func TestUsersCSV(t *testing.T) {
	rows := []model.UserExportRow{
		{
			ID:         "u1",
			Name:       "Alice Martin",
			Email:      "alice@example.com",
			Role:       "member",
			Challenges: []string{"Winter 2025/2026 Challenge", "Summer 2025 Challenge"},
			TotalRuns:  12,
			JoinedAt:   time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	out, err := UsersCSV(rows)
	require.NoError(t, err)

	csv := string(out)
	assert.Contains(t, csv, "id,name,email,role,challenges,totalRuns,joinedAt")
	assert.Contains(t, csv, "alice@example.com")
	assert.Contains(t, csv, "Winter 2025/2026 Challenge; Summer 2025 Challenge")
	assert.Contains(t, csv, "2025-11-02")
}

func TestUsersCSV_QuotesFieldsWithCommas(t *testing.T) {
	rows := []model.UserExportRow{
		{
			ID:       "u1",
			Name:     `Martin, Alice "Ice"`,
			Email:    "alice@example.com",
			Role:     "member",
			JoinedAt: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	out, err := UsersCSV(rows)
	require.NoError(t, err)

	// Virgule et quotes internes : champ entouré de quotes, quotes doublées
	assert.Contains(t, string(out), `"Martin, Alice ""Ice"""`)
}

func TestRunLedgerCSV_NullFieldsAreEmpty(t *testing.T) {
	rows := []model.RunLedgerRow{
		{
			RunID:       "r1",
			UserName:    "Bob",
			UserEmail:   "bob@example.com",
			Position:    3,
			Date:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			Temperature: intp(-4),
			Distance:    nil,
			Duration:    nil,
		},
	}

	out, err := RunLedgerCSV(rows)
	require.NoError(t, err)

	assert.Contains(t, string(out), "r1,Bob,bob@example.com,3,2026-01-15,-4,,\n")
}

func TestLeaderboardCSV(t *testing.T) {
	rows := []model.LeaderboardExportRow{
		{Rank: 1, Name: "Alice", Email: "alice@example.com", TotalRuns: 10,
			ColdestTemperature: intp(-12), AverageTemperature: floatp(8.25)},
		{Rank: 2, Name: "Bob", Email: "bob@example.com", TotalRuns: 4},
	}

	out, err := LeaderboardCSV(rows)
	require.NoError(t, err)

	csv := string(out)
	assert.Contains(t, csv, "1,Alice,alice@example.com,10,-12,8.2")
	assert.Contains(t, csv, "2,Bob,bob@example.com,4,,\n")
}

func TestJSON_RoundTripsRunLedger(t *testing.T) {
	rows := []model.RunLedgerRow{
		{
			RunID:       "r1",
			UserName:    "Bob",
			UserEmail:   "bob@example.com",
			Position:    1,
			Date:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			Temperature: intp(20),
		},
	}

	out, err := JSON(rows)
	require.NoError(t, err)

	var decoded []model.RunLedgerRow
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, rows[0], decoded[0])
	assert.Nil(t, decoded[0].Distance)
}

func TestChallengeSummaryCSV(t *testing.T) {
	rows := []model.ChallengeSummaryRow{
		{
			ChallengeID: "c1", Title: "Winter 2025/2026 Challenge",
			Season: "winter", Year: "2025/2026", DaysCount: 30, Current: true,
			TotalParticipants: 8, TotalRuns: 96, CompletedUsers: 4, CompletionRate: 50,
			AverageTemperature: intp(18), ColdestTemperature: intp(-12),
		},
	}

	out, err := ChallengeSummaryCSV(rows)
	require.NoError(t, err)

	csv := string(out)
	assert.Contains(t, csv, "challengeId,title,season,year,daysCount,current")
	assert.Contains(t, csv, "c1,Winter 2025/2026 Challenge,winter,2025/2026,30,true,8,96,4,50,18,-12")
}
