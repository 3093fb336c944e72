package http

import (
	"errors"
	"net/http"

	"github.com/northbndlabs/gatekeeper/internal/auth/domain"
	"github.com/northbndlabs/gatekeeper/internal/auth/service"
	"github.com/northbndlabs/gatekeeper/pkg/httpx"
	"github.com/northbndlabs/gatekeeper/pkg/slogx"
)

// WhoAmIHandler handles GET /v1/auth/whoami. The bearer token has already
// been verified by the authn middleware; the handler re-resolves the
// account so a deleted user reads as unauthenticated, not as a stale
// profile.
type WhoAmIHandler struct {
	UserService *service.UserService
}

func (h *WhoAmIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := resolveAuthedUser(w, r, h.UserService)
	if !ok {
		return
	}

	httpx.NoCache(w)
	httpx.Data(w, http.StatusOK, user.Profile())
}

// resolveAuthedUser loads the account behind the verified bearer token.
// When it can't, the 401 has already been written.
func resolveAuthedUser(w http.ResponseWriter, r *http.Request, users *service.UserService) (domain.User, bool) {
	ctx := r.Context()

	username := httpx.UsernameFromContext(ctx)
	if username == "" {
		httpx.Message(w, http.StatusUnauthorized, "Invalid access token")
		return domain.User{}, false
	}

	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, service.ErrUnknownIdentity) {
			slogx.FromContext(ctx).Error("failed to resolve authenticated user",
				"username", username, "err", err)
		}
		httpx.Message(w, http.StatusUnauthorized, "Invalid access token")
		return domain.User{}, false
	}
	return user, true
}
