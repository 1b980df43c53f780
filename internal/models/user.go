package model

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

const (
	UnitsImperial = "imperial"
	UnitsMetric   = "metric"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Image          string    `json:"image,omitempty"`
	Role           string    `json:"role"`
	UnitPreference string    `json:"unitPreference"`
	ZipCode        string    `json:"zipCode,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsAdmin indique si l'utilisateur a le rôle admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProviderSignInRequest est le payload renvoyé par le provider d'identité
// (OAuth) : le domaine le transforme en find-or-create User
type ProviderSignInRequest struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

// UpdateUserRequest pour les settings self-service (et les édits admin)
type UpdateUserRequest struct {
	Name           *string `json:"name,omitempty"`
	UnitPreference *string `json:"unitPreference,omitempty"`
	ZipCode        *string `json:"zipCode,omitempty"`
	Role           *string `json:"role,omitempty"` // admin seulement
}

// AdminUserListItem est la ligne utilisateur du back office
type AdminUserListItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Image      *string   `json:"image,omitempty"`
	Role       string    `json:"role"`
	Challenges int       `json:"challenges"`
	TotalRuns  int       `json:"totalRuns"`
	CreatedAt  time.Time `json:"createdAt"`
}
