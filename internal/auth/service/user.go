package service

import (
	"context"
	"errors"

	"github.com/northbndlabs/gatekeeper/internal/auth/domain"
	"github.com/northbndlabs/gatekeeper/internal/auth/store"
	"github.com/northbndlabs/gatekeeper/pkg/cryptox"
	"github.com/northbndlabs/gatekeeper/pkg/idx"
)

// UserService covers account lookup and creation. Password hashing happens
// here so callers never see or store a plaintext password beyond the call.
type UserService struct {
	Store store.Store
}

// GetByUsername resolves an account by username with its role attached.
func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnknownIdentity
		}
		return domain.User{}, err
	}
	return user, nil
}

// Create hashes the password and inserts the account under the named role.
func (s *UserService) Create(ctx context.Context, username, displayName, email, password, roleName string) (domain.User, error) {
	role, err := s.Store.Roles().GetRoleByName(ctx, roleName)
	if err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		RoleName:     role.Name,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
