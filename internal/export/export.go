// Package export sérialise les view models calculés en CSV (quoting
// RFC 4180) ou JSON pretty-printed pour l'analyse hors ligne.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat valide le paramètre format : deux formats seulement
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected csv or json)", s)
	}
}

// ContentType retourne le Content-Type HTTP du format
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// JSON sérialise tel quel l'objet calculé, indenté
func JSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// UsersCSV exporte le roster avec comptes de challenges et de courses
func UsersCSV(rows []model.UserExportRow) ([]byte, error) {
	records := [][]string{
		{"id", "name", "email", "role", "challenges", "totalRuns", "joinedAt"},
	}
	for _, r := range rows {
		records = append(records, []string{
			r.ID, r.Name, r.Email, r.Role,
			joinTitles(r.Challenges),
			strconv.Itoa(r.TotalRuns),
			r.JoinedAt.Format("2006-01-02"),
		})
	}
	return writeCSV(records)
}

// RunLedgerCSV exporte le registre complet des courses d'un challenge
func RunLedgerCSV(rows []model.RunLedgerRow) ([]byte, error) {
	records := [][]string{
		{"runId", "userName", "userEmail", "position", "date", "temperature", "distance", "duration"},
	}
	for _, r := range rows {
		records = append(records, []string{
			r.RunID, r.UserName, r.UserEmail,
			strconv.Itoa(r.Position),
			r.Date.Format("2006-01-02"),
			intPtrField(r.Temperature),
			floatPtrField(r.Distance),
			intPtrField(r.Duration),
		})
	}
	return writeCSV(records)
}

// LeaderboardCSV exporte le classement déjà trié et numéroté
// (voir stats.RankLeaderboardExport)
func LeaderboardCSV(rows []model.LeaderboardExportRow) ([]byte, error) {
	records := [][]string{
		{"rank", "name", "email", "totalRuns", "coldestTemperature", "averageTemperature"},
	}
	for _, r := range rows {
		avg := ""
		if r.AverageTemperature != nil {
			avg = strconv.FormatFloat(*r.AverageTemperature, 'f', 1, 64)
		}
		records = append(records, []string{
			strconv.Itoa(r.Rank), r.Name, r.Email,
			strconv.Itoa(r.TotalRuns),
			intPtrField(r.ColdestTemperature),
			avg,
		})
	}
	return writeCSV(records)
}

// ChallengeSummaryCSV exporte les statistiques résumées de tous les challenges
func ChallengeSummaryCSV(rows []model.ChallengeSummaryRow) ([]byte, error) {
	records := [][]string{
		{"challengeId", "title", "season", "year", "daysCount", "current",
			"totalParticipants", "totalRuns", "completedUsers", "completionRate",
			"averageTemperature", "coldestTemperature"},
	}
	for _, r := range rows {
		records = append(records, []string{
			r.ChallengeID, r.Title, r.Season, r.Year,
			strconv.Itoa(r.DaysCount),
			strconv.FormatBool(r.Current),
			strconv.Itoa(r.TotalParticipants),
			strconv.Itoa(r.TotalRuns),
			strconv.Itoa(r.CompletedUsers),
			strconv.Itoa(r.CompletionRate),
			intPtrField(r.AverageTemperature),
			intPtrField(r.ColdestTemperature),
		})
	}
	return writeCSV(records)
}

// writeCSV applique le quoting RFC 4180 : champ contenant virgule, quote ou
// retour à la ligne entouré de doubles quotes, quotes internes doublées
func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("could not write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func joinTitles(titles []string) string {
	out := ""
	for i, t := range titles {
		if i > 0 {
			out += "; "
		}
		out += t
	}
	return out
}

func intPtrField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatPtrField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
