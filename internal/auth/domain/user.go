package domain

import "time"

type User struct {
	ID           string // ULID, stable across renames
	Username     string
	DisplayName  string
	Email        string
	PasswordHash string // argon2id encoded
	RoleID       string
	RoleName     string // resolved by the store at lookup time

	TOTPSecret  *string // base32 encoded, nil when second factor is disabled
	TOTPEnabled bool

	CreatedAt time.Time
	LastLogin *time.Time
}

// Profile is the public projection of a user: everything a client may see,
// nothing it must not (no password hash, no TOTP secret).
type Profile struct {
	ID          string     `json:"guid"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	Created     time.Time  `json:"created"`
	LastLogin   *time.Time `json:"lastLogin"`
	Role        string     `json:"role"`
	TwoFactor   bool       `json:"2fa"`
}

// Profile returns the public projection of u.
func (u User) Profile() Profile {
	display := u.DisplayName
	if display == "" {
		display = u.Username
	}
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: display,
		Email:       u.Email,
		Created:     u.CreatedAt,
		LastLogin:   u.LastLogin,
		Role:        u.RoleName,
		TwoFactor:   u.TOTPEnabled,
	}
}
