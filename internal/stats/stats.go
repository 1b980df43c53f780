// Package stats regroupe les dérivations read-side pures : classements,
// records et agrégats calculés en mémoire à partir des lignes brutes.
// Aucune mutation, aucun cache : chaque lecture recalcule.
package stats

import (
	"math"
	"sort"
	"time"

	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

// LeaderboardRun est une course candidate au classement : température
// non-null, jointe avec le nom de son propriétaire
type LeaderboardRun struct {
	RunID       string
	UserID      string
	UserName    string
	Temperature int
	Date        time.Time
}

// ChallengeLeaderboard réduit les courses au classement public : une seule
// entrée par utilisateur (sa course la plus froide), triée par température
// croissante. Le tri secondaire (date puis id) rend les égalités
// déterministes quel que soit l'ordre renvoyé par le store.
func ChallengeLeaderboard(runs []LeaderboardRun) []model.LeaderboardEntry {
	sorted := append([]LeaderboardRun(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Temperature != sorted[j].Temperature {
			return sorted[i].Temperature < sorted[j].Temperature
		}
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].RunID < sorted[j].RunID
	})

	entries := []model.LeaderboardEntry{}
	seen := make(map[string]bool)
	for _, run := range sorted {
		if seen[run.UserID] {
			continue
		}
		seen[run.UserID] = true
		entries = append(entries, model.LeaderboardEntry{
			FirstName:   utils.FirstName(run.UserName),
			Temperature: run.Temperature,
		})
	}

	return entries
}

// RunObservation est une course d'un utilisateur, température éventuellement
// absente (saisie sans relevé)
type RunObservation struct {
	RunID       string
	Position    int
	Date        time.Time
	Temperature *int
}

// ColdestRun retourne la course la plus froide parmi les observations avec
// température, ou nil si aucune ne qualifie. Égalités départagées par date
// puis id.
func ColdestRun(runs []RunObservation) *model.RunRecord {
	var best *RunObservation
	for i := range runs {
		run := &runs[i]
		if run.Temperature == nil {
			continue
		}
		if best == nil {
			best = run
			continue
		}
		switch {
		case *run.Temperature < *best.Temperature:
			best = run
		case *run.Temperature == *best.Temperature && run.Date.Before(best.Date):
			best = run
		case *run.Temperature == *best.Temperature && run.Date.Equal(best.Date) && run.RunID < best.RunID:
			best = run
		}
	}
	if best == nil {
		return nil
	}
	return &model.RunRecord{
		Temperature: *best.Temperature,
		Date:        best.Date,
		Position:    best.Position,
	}
}

// bucket est un intervalle semi-ouvert [min, max) en °F ; les bornes nil
// sont ouvertes
type bucket struct {
	label string
	min   *int
	max   *int
}

func intPtr(v int) *int { return &v }

// Bornes fixes de l'histogramme, scannées dans l'ordre : premier intervalle
// correspondant retenu
var temperatureBuckets = []bucket{
	{label: "< -10°F", max: intPtr(-10)},
	{label: "-10 to 0°F", min: intPtr(-10), max: intPtr(0)},
	{label: "0 to 10°F", min: intPtr(0), max: intPtr(10)},
	{label: "10 to 20°F", min: intPtr(10), max: intPtr(20)},
	{label: "20 to 32°F", min: intPtr(20), max: intPtr(32)},
	{label: "32 to 40°F", min: intPtr(32), max: intPtr(40)},
	{label: "40 to 50°F", min: intPtr(40), max: intPtr(50)},
	{label: "> 50°F", min: intPtr(50)},
}

// TemperatureDistribution répartit les températures dans les intervalles
// fixes. Liste vide (pas un histogramme de zéros) quand aucune course ne
// qualifie.
func TemperatureDistribution(temps []int) []model.TemperatureBucket {
	if len(temps) == 0 {
		return []model.TemperatureBucket{}
	}

	counts := make([]int, len(temperatureBuckets))
	for _, t := range temps {
		for i, b := range temperatureBuckets {
			if b.min != nil && t < *b.min {
				continue
			}
			if b.max != nil && t >= *b.max {
				continue
			}
			counts[i]++
			break
		}
	}

	result := make([]model.TemperatureBucket, len(temperatureBuckets))
	for i, b := range temperatureBuckets {
		result[i] = model.TemperatureBucket{Label: b.label, Count: counts[i]}
	}
	return result
}

// RunsByDay construit une série dense jour par jour sur [now - days, now] :
// chaque jour présent même à zéro, longueur days+1, pour les bar charts
func RunsByDay(dates []time.Time, now time.Time, days int) []model.DataPoint {
	counts := make(map[string]int, len(dates))
	for _, d := range dates {
		counts[d.Format("2006-01-02")]++
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -days)
	series := make([]model.DataPoint, 0, days+1)
	for i := 0; i <= days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, model.DataPoint{Date: key, Count: counts[key]})
	}
	return series
}

// EnrollmentProgress est l'avancement d'une inscription : nombre de courses
// loggées face à l'objectif snapshotté à l'inscription
type EnrollmentProgress struct {
	RunCount  int
	DaysCount int
}

// Participation agrège la participation d'un challenge : une inscription est
// complétée quand son compte de courses atteint son objectif snapshot
func Participation(enrollments []EnrollmentProgress, temps []int) model.ChallengeParticipation {
	var p model.ChallengeParticipation
	p.TotalParticipants = len(enrollments)

	for _, e := range enrollments {
		p.TotalRuns += e.RunCount
		if e.RunCount >= e.DaysCount {
			p.CompletedUsers++
		}
	}

	if p.TotalParticipants > 0 {
		p.CompletionRate = int(math.Round(float64(p.CompletedUsers) / float64(p.TotalParticipants) * 100))
	}

	if len(temps) > 0 {
		sum := 0
		coldest := temps[0]
		for _, t := range temps {
			sum += t
			if t < coldest {
				coldest = t
			}
		}
		avg := int(math.Round(float64(sum) / float64(len(temps))))
		p.AverageTemperature = &avg
		p.ColdestTemperature = &coldest
	}

	return p
}

// AverageRunsPerUser arrondit à une décimale, 0 sans utilisateur (pas de
// division par zéro)
func AverageRunsPerUser(totalRuns, totalUsers int) float64 {
	if totalUsers == 0 {
		return 0
	}
	return math.Round(float64(totalRuns)/float64(totalUsers)*10) / 10
}

// RankLeaderboardExport trie et numérote l'export du classement :
// totalRuns décroissant, égalité départagée par la température la plus
// froide croissante (température absente = +inf, donc en dernier), puis
// email pour rester déterministe
func RankLeaderboardExport(rows []model.LeaderboardExportRow) []model.LeaderboardExportRow {
	ranked := append([]model.LeaderboardExportRow(nil), rows...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalRuns != ranked[j].TotalRuns {
			return ranked[i].TotalRuns > ranked[j].TotalRuns
		}
		ci, cj := coldestOrInf(ranked[i].ColdestTemperature), coldestOrInf(ranked[j].ColdestTemperature)
		if ci != cj {
			return ci < cj
		}
		return ranked[i].Email < ranked[j].Email
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func coldestOrInf(t *int) float64 {
	if t == nil {
		return math.Inf(1)
	}
	return float64(*t)
}
