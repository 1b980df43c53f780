package scanner

import (
	"database/sql"

	"github.com/lib/pq"
	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

// Les helpers scannent une ligne SQL vers un modèle. L'ordre des colonnes
// doit correspondre aux SELECT canoniques des handlers.

// ScanUser scanne : id, name, email, image, role, unit_preference, zip_code, created_at
func ScanUser(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.User, error) {
	var u model.User
	var image, zipCode sql.NullString

	err := scanner.Scan(
		&u.ID, &u.Name, &u.Email, &image,
		&u.Role, &u.UnitPreference, &zipCode, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Image = utils.NullStringToString(image)
	u.ZipCode = utils.NullStringToString(zipCode)

	return &u, nil
}

// ScanChallenge scanne : id, season, year, days_count, current, strava_url, strava_embed, created_at
func ScanChallenge(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Challenge, error) {
	var c model.Challenge
	var stravaURL, stravaEmbed sql.NullString

	err := scanner.Scan(
		&c.ID, &c.Season, &c.Year, &c.DaysCount,
		&c.Current, &stravaURL, &stravaEmbed, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.StravaURL = utils.NullStringToPointer(stravaURL)
	c.StravaEmbed = utils.NullStringToPointer(stravaEmbed)

	return &c, nil
}

// ScanUserChallenge scanne : id, user_id, challenge_id, days_count, created_at
func ScanUserChallenge(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.UserChallenge, error) {
	var uc model.UserChallenge

	err := scanner.Scan(
		&uc.ID, &uc.UserID, &uc.ChallengeID, &uc.DaysCount, &uc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &uc, nil
}

// ScanRun scanne : id, user_challenge_id, position, date, temperature, distance, duration, created_at, updated_at
func ScanRun(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Run, error) {
	var r model.Run
	var temperature sql.NullInt64
	var distance sql.NullFloat64
	var duration sql.NullInt64

	err := scanner.Scan(
		&r.ID, &r.UserChallengeID, &r.Position, &r.Date,
		&temperature, &distance, &duration, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Temperature = utils.NullInt64ToPointer(temperature)
	r.Distance = utils.NullFloat64ToPointer(distance)
	r.Duration = utils.NullInt64ToPointer(duration)

	return &r, nil
}

// ScanFeedback scanne : id, user_id, category, message, page_path, user_agent,
// linear_issue_url, linear_status, linear_error, created_at, updated_at
func ScanFeedback(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Feedback, error) {
	var f model.Feedback
	var userID, pagePath, userAgent, issueURL, linearErr sql.NullString

	err := scanner.Scan(
		&f.ID, &userID, &f.Category, &f.Message, &pagePath, &userAgent,
		&issueURL, &f.LinearStatus, &linearErr, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.UserID = utils.NullStringToPointer(userID)
	f.PagePath = utils.NullStringToPointer(pagePath)
	f.UserAgent = utils.NullStringToPointer(userAgent)
	f.LinearIssueURL = utils.NullStringToPointer(issueURL)
	f.LinearError = utils.NullStringToPointer(linearErr)

	return &f, nil
}

// ScanUserExportRow scanne une ligne du roster exporté, avec les titres de
// challenges agrégés en text[] côté SQL
func ScanUserExportRow(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.UserExportRow, error) {
	var row model.UserExportRow

	err := scanner.Scan(
		&row.ID, &row.Name, &row.Email, &row.Role,
		pq.Array(&row.Challenges), &row.TotalRuns, &row.JoinedAt,
	)
	if err != nil {
		return nil, err
	}

	if row.Challenges == nil {
		row.Challenges = []string{}
	}

	return &row, nil
}

// ScanAdminUserListItem scanne une ligne utilisateur du back office
func ScanAdminUserListItem(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.AdminUserListItem, error) {
	var item model.AdminUserListItem
	var image sql.NullString

	err := scanner.Scan(
		&item.ID, &item.Name, &item.Email, &image, &item.Role,
		&item.Challenges, &item.TotalRuns, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Image = utils.NullStringToPointer(image)

	return &item, nil
}
