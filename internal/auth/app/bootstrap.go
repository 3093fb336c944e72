package app

import (
	"context"

	"github.com/northbndlabs/gatekeeper/internal/auth/domain"
	"github.com/northbndlabs/gatekeeper/pkg/idx"
)

// bootstrap seeds the default roles and, when configured, an initial admin
// account. It only touches an empty store: once any user exists the
// deployment is considered provisioned and bootstrap is skipped.
func (app *Application) bootstrap(ctx context.Context) error {
	roles := app.db.Roles()

	empty, err := roles.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if empty {
		for _, name := range []string{domain.RoleAdmin, domain.RoleUser} {
			if err := roles.CreateRole(ctx, domain.Role{
				ID:   idx.New().String(),
				Name: name,
			}); err != nil {
				return err
			}
		}
		app.logger.Info("seeded default roles")
	}

	noUsers, err := app.db.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !noUsers {
		return nil
	}

	if app.cfg.BootstrapUsername == "" || app.cfg.BootstrapPassword == "" {
		app.logger.Warn("store has no users and no bootstrap account is configured")
		return nil
	}

	_, err = app.userService.Create(ctx,
		app.cfg.BootstrapUsername,
		app.cfg.BootstrapUsername,
		app.cfg.BootstrapEmail,
		app.cfg.BootstrapPassword,
		domain.RoleAdmin,
	)
	if err != nil {
		return err
	}

	app.logger.Info("seeded bootstrap admin account", "username", app.cfg.BootstrapUsername)
	return nil
}
