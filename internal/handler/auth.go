package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/database"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/logger"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/scanner"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const sessionDuration = 30 * 24 * time.Hour

// Signup crée un compte email + mot de passe et ouvre une session
func Signup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if payload.Email == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "email is required")
		return
	}
	if payload.Password == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "password is required")
		return
	}
	if payload.Name == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)

	role := model.RoleMember
	if cfg.IsAdminEmail(payload.Email) {
		role = model.RoleAdmin
	}

	row := database.DB.QueryRow(ctx, `
		INSERT INTO users(name, email, password_hash, role, unit_preference, created_at)
		VALUES($1, $2, $3, $4, $5, NOW())
		RETURNING id, name, email, image, role, unit_preference, zip_code, created_at`,
		payload.Name, payload.Email, string(hashed), role, model.UnitsImperial,
	)

	user, err := scanner.ScanUser(row)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create user", err)
		return
	}

	// Auto-inscription au challenge courant s'il existe
	if err := enrollInCurrentChallenge(ctx, user.ID); err != nil {
		logger.Warning("Could not auto-enroll user %s: %v", user.ID, err)
	}

	token, err := createSession(ctx, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Login vérifie email + mot de passe et ouvre une session
func Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if payload.Email == "" || payload.Password == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx := context.Background()

	// Scan manuel : le hash ne sort jamais dans le modèle
	var user model.User
	var image, zipCode, passwordHash sql.NullString
	err := database.DB.QueryRow(ctx, `
		SELECT id, name, email, image, role, unit_preference, zip_code, created_at, password_hash
		FROM users WHERE email = $1`, payload.Email,
	).Scan(&user.ID, &user.Name, &user.Email, &image, &user.Role,
		&user.UnitPreference, &zipCode, &user.CreatedAt, &passwordHash)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	user.Image = utils.NullStringToString(image)
	user.ZipCode = utils.NullStringToString(zipCode)

	if !passwordHash.Valid ||
		bcrypt.CompareHashAndPassword([]byte(passwordHash.String), []byte(payload.Password)) != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := createSession(ctx, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// ProviderSignIn est l'échange sign-in du provider d'identité : find-or-create
// de l'utilisateur, promotion admin via allow-list, auto-inscription au
// challenge courant, ouverture de session
func ProviderSignIn(w http.ResponseWriter, r *http.Request) {
	var payload model.ProviderSignInRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if payload.Email == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "email is required")
		return
	}
	if !payload.EmailVerified {
		utils.ErrorSimple(w, http.StatusUnauthorized, "email is not verified by the provider")
		return
	}

	ctx := context.Background()

	role := model.RoleMember
	if cfg.IsAdminEmail(payload.Email) {
		role = model.RoleAdmin
	}

	// Find-or-create : l'upsert converge même si deux sign-in arrivent en
	// même temps pour le même email
	row := database.DB.QueryRow(ctx, `
		INSERT INTO users(name, email, image, role, unit_preference, created_at)
		VALUES($1, $2, NULLIF($3, ''), $4, $5, NOW())
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			image = COALESCE(EXCLUDED.image, users.image),
			role = CASE WHEN EXCLUDED.role = 'admin' THEN 'admin' ELSE users.role END
		RETURNING id, name, email, image, role, unit_preference, zip_code, created_at`,
		payload.Name, payload.Email, payload.Image, role, model.UnitsImperial,
	)

	user, err := scanner.ScanUser(row)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not sign in", err)
		return
	}

	if err := enrollInCurrentChallenge(ctx, user.ID); err != nil {
		logger.Warning("Could not auto-enroll user %s: %v", user.ID, err)
	}

	token, err := createSession(ctx, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Logout invalide la session courante
func Logout(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.GetTokenFromContext(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "missing session token")
		return
	}

	_, err = database.DB.Exec(context.Background(),
		`UPDATE sessions SET is_active = false WHERE token = $1`, token)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not invalidate session", err)
		return
	}

	utils.Message(w, "logged out")
}

// createSession ouvre une session et retourne son token
func createSession(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	now := time.Now()

	_, err := database.DB.Exec(ctx, `
		INSERT INTO sessions(user_id, token, is_active, created_at, expires_at)
		VALUES($1, $2, true, $3, $4)`,
		userID, token, now, now.Add(sessionDuration))
	if err != nil {
		return "", err
	}

	return token, nil
}

// enrollInCurrentChallenge inscrit l'utilisateur au challenge courant s'il
// existe, en snapshotant days_count. No-op sans challenge courant, idempotent
// si déjà inscrit.
func enrollInCurrentChallenge(ctx context.Context, userID string) error {
	var challengeID string
	var daysCount int
	err := database.DB.QueryRow(ctx,
		`SELECT id, days_count FROM challenges WHERE current = true`).Scan(&challengeID, &daysCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = database.DB.Exec(ctx, `
		INSERT INTO user_challenges(user_id, challenge_id, days_count, created_at)
		VALUES($1, $2, $3, NOW())
		ON CONFLICT (user_id, challenge_id) DO NOTHING`,
		userID, challengeID, daysCount)
	return err
}
