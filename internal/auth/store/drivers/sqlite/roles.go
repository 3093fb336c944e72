package sqlite

import (
	"context"
	"database/sql"

	"github.com/northbndlabs/gatekeeper/internal/auth/domain"
)

type rolesRepo struct {
	db *sql.DB
}

func (repo *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	var r domain.Role
	err := repo.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM roles WHERE name = ?`, name).
		Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return r, nil
}

func (repo *rolesRepo) CreateRole(ctx context.Context, r domain.Role) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO roles (id, name, description) VALUES (?, ?, ?)`,
		r.ID, r.Name, r.Description)
	return err
}

func (repo *rolesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
