package sqlite

import (
	"context"
	"database/sql"

	"github.com/northbndlabs/gatekeeper/internal/auth/domain"
)

type usersRepo struct {
	db *sql.DB
}

// userColumns joins the role name in so callers never follow up with a
// second lookup.
const userColumns = `
	u.id, u.username, u.display_name, u.email, u.password_hash,
	u.role_id, r.name, u.totp_secret, u.totp_enabled, u.created_at, u.last_login
`

const selectUser = `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id`

func (repo *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := repo.db.QueryRowContext(ctx, selectUser+` WHERE u.username = ?`, username)
	return scanUser(row)
}

func (repo *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := repo.db.QueryRowContext(ctx, selectUser+` WHERE u.id = ?`, id)
	return scanUser(row)
}

func (repo *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO users (id, username, display_name, email, password_hash, role_id, totp_secret, totp_enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.DisplayName, u.Email, u.PasswordHash, u.RoleID,
		nullString(u.TOTPSecret), u.TOTPEnabled,
	)
	return err
}

func (repo *usersRepo) UpdateLastLogin(ctx context.Context, userID string) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?`, userID)
	return affectOne(res, err)
}

func (repo *usersRepo) UpdateTOTPSecret(ctx context.Context, userID string, secret string) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET totp_secret = ?, totp_enabled = 0 WHERE id = ?`, secret, userID)
	return affectOne(res, err)
}

func (repo *usersRepo) EnableTOTP(ctx context.Context, userID string) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET totp_enabled = 1 WHERE id = ? AND totp_secret IS NOT NULL`, userID)
	return affectOne(res, err)
}

func (repo *usersRepo) ClearTOTP(ctx context.Context, userID string) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET totp_secret = NULL, totp_enabled = 0 WHERE id = ?`, userID)
	return affectOne(res, err)
}

func (repo *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var secret sql.NullString
	var lastLogin sql.NullTime

	err := row.Scan(
		&u.ID, &u.Username, &u.DisplayName, &u.Email, &u.PasswordHash,
		&u.RoleID, &u.RoleName, &secret, &u.TOTPEnabled, &u.CreatedAt, &lastLogin,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	if secret.Valid {
		u.TOTPSecret = &secret.String
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// affectOne maps an UPDATE that matched no rows to ErrNotFound.
func affectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
