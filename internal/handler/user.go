package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/database"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/middleware"
	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/scanner"
	"github.com/lucianoMintrone/no-name-running-club-sub000/internal/utils"
)

// Me retourne le profil de l'utilisateur connecté
func Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}
	utils.Success(w, user)
}

// UpdateMe met à jour les settings self-service (nom, unités, code postal).
// Le rôle n'est jamais modifiable ici.
func UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req model.UpdateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if req.UnitPreference != nil &&
		*req.UnitPreference != model.UnitsImperial && *req.UnitPreference != model.UnitsMetric {
		utils.ErrorSimple(w, http.StatusBadRequest, "unitPreference must be imperial or metric")
		return
	}
	if req.Name != nil && *req.Name == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	updated, err := updateUserFields(context.Background(), user.ID, req, false)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update user", err)
		return
	}

	utils.Success(w, updated)
}

// GetUsers liste les utilisateurs avec comptes d'inscriptions et de courses
// (admin)
func GetUsers(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	ctx := context.Background()

	rows, err := database.DB.Query(ctx, `
		SELECT
			u.id, u.name, u.email, u.image, u.role,
			COUNT(DISTINCT uc.id) AS challenges,
			COUNT(r.id) AS total_runs,
			u.created_at
		FROM users u
		LEFT JOIN user_challenges uc ON uc.user_id = u.id
		LEFT JOIN runs r ON r.user_challenge_id = uc.id
		GROUP BY u.id
		ORDER BY u.created_at`)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query users", err)
		return
	}
	defer rows.Close()

	users := []model.AdminUserListItem{}
	for rows.Next() {
		item, err := scanner.ScanAdminUserListItem(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan user row", err)
			return
		}
		users = append(users, *item)
	}

	utils.Success(w, users)
}

// AdminUpdateUser modifie un utilisateur, rôle inclus (admin)
func AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	vars := mux.Vars(r)
	userID := vars["id"]

	var req model.UpdateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if req.Role != nil && *req.Role != model.RoleMember && *req.Role != model.RoleAdmin {
		utils.ErrorSimple(w, http.StatusBadRequest, "role must be member or admin")
		return
	}
	if req.UnitPreference != nil &&
		*req.UnitPreference != model.UnitsImperial && *req.UnitPreference != model.UnitsMetric {
		utils.ErrorSimple(w, http.StatusBadRequest, "unitPreference must be imperial or metric")
		return
	}

	updated, err := updateUserFields(context.Background(), userID, req, true)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	utils.Success(w, updated)
}

// AdminDeleteUser supprime un utilisateur ; les inscriptions et courses
// suivent en cascade
func AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin privileges required")
		return
	}

	vars := mux.Vars(r)
	userID := vars["id"]

	res, err := database.DB.Exec(context.Background(),
		`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete user", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	utils.Success(w, map[string]bool{"success": true})
}

// updateUserFields construit dynamiquement l'UPDATE selon les champs fournis
func updateUserFields(ctx context.Context, userID string, req model.UpdateUserRequest, allowRole bool) (*model.User, error) {
	query := "UPDATE users SET updated_at = NOW()"
	args := []interface{}{}
	argCount := 1

	if req.Name != nil {
		query += ", name = $" + strconv.Itoa(argCount)
		args = append(args, *req.Name)
		argCount++
	}
	if req.UnitPreference != nil {
		query += ", unit_preference = $" + strconv.Itoa(argCount)
		args = append(args, *req.UnitPreference)
		argCount++
	}
	if req.ZipCode != nil {
		query += ", zip_code = NULLIF($" + strconv.Itoa(argCount) + ", '')"
		args = append(args, *req.ZipCode)
		argCount++
	}
	if allowRole && req.Role != nil {
		query += ", role = $" + strconv.Itoa(argCount)
		args = append(args, *req.Role)
		argCount++
	}

	query += " WHERE id = $" + strconv.Itoa(argCount)
	args = append(args, userID)
	query += " RETURNING id, name, email, image, role, unit_preference, zip_code, created_at"

	row := database.DB.QueryRow(ctx, query, args...)
	return scanner.ScanUser(row)
}
