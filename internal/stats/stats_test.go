package stats

import (
	"testing"
	"time"

	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func intp(v int) *int { return &v }

func TestChallengeLeaderboard(t *testing.T) {
	runs := []LeaderboardRun{
		{RunID: "r1", UserID: "alice", UserName: "Alice Martin", Temperature: 10, Date: day("2026-01-03")},
		{RunID: "r2", UserID: "alice", UserName: "Alice Martin", Temperature: 20, Date: day("2026-01-04")},
		{RunID: "r3", UserID: "alice", UserName: "Alice Martin", Temperature: 15, Date: day("2026-01-05")},
		{RunID: "r4", UserID: "bob", UserName: "Bob Dupont", Temperature: 5, Date: day("2026-01-02")},
	}

	entries := ChallengeLeaderboard(runs)

	require.Len(t, entries, 2)
	assert.Equal(t, model.LeaderboardEntry{FirstName: "Bob", Temperature: 5}, entries[0])
	assert.Equal(t, model.LeaderboardEntry{FirstName: "Alice", Temperature: 10}, entries[1])
}

func TestChallengeLeaderboard_TieBreaksAreDeterministic(t *testing.T) {
	// Même température : la course la plus ancienne gagne, puis l'id
	runs := []LeaderboardRun{
		{RunID: "r2", UserID: "bob", UserName: "Bob", Temperature: 12, Date: day("2026-01-05")},
		{RunID: "r1", UserID: "alice", UserName: "Alice", Temperature: 12, Date: day("2026-01-02")},
		{RunID: "r3", UserID: "carol", UserName: "Carol", Temperature: 12, Date: day("2026-01-05")},
	}

	entries := ChallengeLeaderboard(runs)

	require.Len(t, entries, 3)
	assert.Equal(t, "Alice", entries[0].FirstName)
	assert.Equal(t, "Bob", entries[1].FirstName)
	assert.Equal(t, "Carol", entries[2].FirstName)
}

func TestChallengeLeaderboard_Empty(t *testing.T) {
	entries := ChallengeLeaderboard(nil)
	require.NotNil(t, entries)
	assert.Len(t, entries, 0)
}

func TestColdestRun(t *testing.T) {
	runs := []RunObservation{
		{RunID: "r1", Position: 1, Date: day("2026-01-02"), Temperature: intp(20)},
		{RunID: "r2", Position: 2, Date: day("2026-01-03"), Temperature: nil},
		{RunID: "r3", Position: 3, Date: day("2026-01-04"), Temperature: intp(-5)},
		{RunID: "r4", Position: 4, Date: day("2026-01-05"), Temperature: intp(8)},
	}

	record := ColdestRun(runs)

	require.NotNil(t, record)
	assert.Equal(t, -5, record.Temperature)
	assert.Equal(t, 3, record.Position)
	assert.Equal(t, day("2026-01-04"), record.Date)
}

func TestColdestRun_NoTemperatures(t *testing.T) {
	runs := []RunObservation{
		{RunID: "r1", Position: 1, Date: day("2026-01-02")},
	}
	assert.Nil(t, ColdestRun(runs))
	assert.Nil(t, ColdestRun(nil))
}

func TestColdestRun_TieGoesToEarliestDate(t *testing.T) {
	runs := []RunObservation{
		{RunID: "r2", Position: 2, Date: day("2026-01-05"), Temperature: intp(0)},
		{RunID: "r1", Position: 1, Date: day("2026-01-02"), Temperature: intp(0)},
	}

	record := ColdestRun(runs)

	require.NotNil(t, record)
	assert.Equal(t, 1, record.Position)
}

func TestTemperatureDistribution(t *testing.T) {
	buckets := TemperatureDistribution([]int{5, 15, 25, 35})

	require.Len(t, buckets, 8)

	byLabel := map[string]int{}
	for _, b := range buckets {
		byLabel[b.Label] = b.Count
	}

	assert.Equal(t, 1, byLabel["0 to 10°F"])
	assert.Equal(t, 1, byLabel["10 to 20°F"])
	assert.Equal(t, 1, byLabel["20 to 32°F"])
	assert.Equal(t, 1, byLabel["32 to 40°F"])
	assert.Equal(t, 0, byLabel["< -10°F"])
	assert.Equal(t, 0, byLabel["> 50°F"])
}

func TestTemperatureDistribution_Boundaries(t *testing.T) {
	// Intervalles semi-ouverts : la borne haute appartient au suivant
	buckets := TemperatureDistribution([]int{-10, 0, 32, 50})

	byLabel := map[string]int{}
	for _, b := range buckets {
		byLabel[b.Label] = b.Count
	}

	assert.Equal(t, 0, byLabel["< -10°F"])
	assert.Equal(t, 1, byLabel["-10 to 0°F"])
	assert.Equal(t, 1, byLabel["0 to 10°F"])
	assert.Equal(t, 1, byLabel["32 to 40°F"])
	assert.Equal(t, 1, byLabel["> 50°F"])
}

func TestTemperatureDistribution_Empty(t *testing.T) {
	buckets := TemperatureDistribution(nil)
	require.NotNil(t, buckets)
	assert.Len(t, buckets, 0)
}

func TestRunsByDay(t *testing.T) {
	now := day("2026-01-10")
	dates := []time.Time{
		day("2026-01-10"),
		day("2026-01-10"),
		day("2026-01-08"),
		day("2026-01-01"), // hors fenêtre
	}

	series := RunsByDay(dates, now, 7)

	require.Len(t, series, 8)
	assert.Equal(t, "2026-01-03", series[0].Date)
	assert.Equal(t, "2026-01-10", series[7].Date)
	assert.Equal(t, 2, series[7].Count)
	assert.Equal(t, 1, series[5].Count)
	assert.Equal(t, 0, series[1].Count)
}

func TestParticipation(t *testing.T) {
	enrollments := []EnrollmentProgress{
		{RunCount: 2, DaysCount: 2},
		{RunCount: 1, DaysCount: 2},
		{RunCount: 0, DaysCount: 2},
		{RunCount: 5, DaysCount: 2},
	}
	temps := []int{10, 20, -6}

	p := Participation(enrollments, temps)

	assert.Equal(t, 4, p.TotalParticipants)
	assert.Equal(t, 8, p.TotalRuns)
	assert.Equal(t, 2, p.CompletedUsers)
	assert.Equal(t, 50, p.CompletionRate)
	require.NotNil(t, p.AverageTemperature)
	assert.Equal(t, 8, *p.AverageTemperature)
	require.NotNil(t, p.ColdestTemperature)
	assert.Equal(t, -6, *p.ColdestTemperature)
}

func TestParticipation_Empty(t *testing.T) {
	p := Participation(nil, nil)

	assert.Equal(t, 0, p.TotalParticipants)
	assert.Equal(t, 0, p.CompletionRate)
	assert.Nil(t, p.AverageTemperature)
	assert.Nil(t, p.ColdestTemperature)
}

func TestAverageRunsPerUser(t *testing.T) {
	assert.Equal(t, 0.0, AverageRunsPerUser(42, 0))
	assert.Equal(t, 2.5, AverageRunsPerUser(5, 2))
	assert.Equal(t, 3.3, AverageRunsPerUser(10, 3))
}

func TestRankLeaderboardExport(t *testing.T) {
	rows := []model.LeaderboardExportRow{
		{Name: "Alice", Email: "alice@example.com", TotalRuns: 2, ColdestTemperature: intp(-10)},
		{Name: "Bob", Email: "bob@example.com", TotalRuns: 3, ColdestTemperature: intp(15)},
		{Name: "Carol", Email: "carol@example.com", TotalRuns: 2, ColdestTemperature: nil},
		{Name: "Dave", Email: "dave@example.com", TotalRuns: 2, ColdestTemperature: intp(0)},
	}

	ranked := RankLeaderboardExport(rows)

	require.Len(t, ranked, 4)
	// Volume d'abord : 3 courses battent une course plus froide
	assert.Equal(t, "Bob", ranked[0].Name)
	assert.Equal(t, 1, ranked[0].Rank)
	// Puis la plus froide, null en dernier
	assert.Equal(t, "Alice", ranked[1].Name)
	assert.Equal(t, "Dave", ranked[2].Name)
	assert.Equal(t, "Carol", ranked[3].Name)
	assert.Equal(t, 4, ranked[3].Rank)
}
