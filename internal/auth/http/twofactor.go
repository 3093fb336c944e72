package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/northbndlabs/gatekeeper/internal/auth/service"
	"github.com/northbndlabs/gatekeeper/internal/auth/store"
	"github.com/northbndlabs/gatekeeper/pkg/httpx"
	"github.com/northbndlabs/gatekeeper/pkg/slogx"
)

// TwoFactorHandler handles the /v1/2fa endpoints: enrollment, activation,
// deactivation, and the admin reset.
type TwoFactorHandler struct {
	TwoFactorService *service.TwoFactorService
	UserService      *service.UserService
}

type twoFactorCodeRequest struct {
	Token string `json:"token"`
}

// decodeCode reads an optional {"token": "123456"} body. A present token
// must be a six-digit code.
func decodeCode(r *http.Request, required bool) (string, bool) {
	var req twoFactorCodeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		if required {
			return "", false
		}
		return "", true
	}
	if req.Token == "" {
		return "", !required
	}
	if len(req.Token) != 6 {
		return "", false
	}
	return req.Token, true
}

// HandleEnroll handles POST /v1/2fa/enroll.
func (h *TwoFactorHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := resolveAuthedUser(w, r, h.UserService)
	if !ok {
		return
	}

	enrollment, err := h.TwoFactorService.BeginEnrollment(ctx, user)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrAlreadyActive):
		httpx.Message(w, http.StatusUnprocessableEntity, "2fa is already enabled")
		return
	default:
		log.Error("totp enrollment failed", "username", user.Username, "err", err)
		httpx.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.Data(w, http.StatusOK, enrollment)
}

// HandleURI handles GET /v1/2fa/uri. The provisioning URI is only handed
// out while enrollment is pending; once active it would leak the secret.
func (h *TwoFactorHandler) HandleURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := resolveAuthedUser(w, r, h.UserService)
	if !ok {
		return
	}

	uri, err := h.TwoFactorService.EnrollmentURI(ctx, user)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Unable to generate QR Code")
		return
	}

	httpx.NoCache(w)
	httpx.Data(w, http.StatusOK, map[string]string{"uri": uri})
}

// HandleActivate handles POST /v1/2fa/activate.
func (h *TwoFactorHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := resolveAuthedUser(w, r, h.UserService)
	if !ok {
		return
	}

	code, ok := decodeCode(r, true)
	if !ok || code == "" {
		httpx.Message(w, http.StatusBadRequest, "Payload is invalid")
		return
	}

	err := h.TwoFactorService.Activate(ctx, user, code)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotSetUp):
		httpx.Message(w, http.StatusBadRequest, "2fa is not setted up")
		return
	case errors.Is(err, service.ErrInvalidCode):
		httpx.Message(w, http.StatusBadRequest, "invalid token, try again")
		return
	default:
		log.Error("totp activation failed", "username", user.Username, "err", err)
		httpx.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.Message(w, http.StatusOK, "2fa has been enabled")
}

// HandleDeactivate handles DELETE /v1/2fa. A pending enrollment is
// abandoned without a code; an active factor needs a valid current code.
func (h *TwoFactorHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := resolveAuthedUser(w, r, h.UserService)
	if !ok {
		return
	}

	code, ok := decodeCode(r, false)
	if !ok {
		httpx.Message(w, http.StatusBadRequest, "Payload is invalid")
		return
	}

	err := h.TwoFactorService.Deactivate(ctx, user, code)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrCodeRequired):
		httpx.Message(w, http.StatusBadRequest, "Unable to deactivate 2fa, token not submitted")
		return
	case errors.Is(err, service.ErrInvalidCode):
		httpx.Message(w, http.StatusBadRequest, "Unable to deactivate 2fa, token is invalid")
		return
	default:
		log.Error("totp deactivation failed", "username", user.Username, "err", err)
		httpx.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.Data(w, http.StatusOK, "2fa secret has been disabled")
}

// HandleAdminReset handles DELETE /v1/2fa/{username}: an admin
// force-disables another account's second factor.
func (h *TwoFactorHandler) HandleAdminReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := resolveAuthedUser(w, r, h.UserService)
	if !ok {
		return
	}

	target := r.PathValue("username")
	err := h.TwoFactorService.AdminReset(ctx, actor, target)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrForbidden):
		httpx.Message(w, http.StatusForbidden, "Forbidden")
		return
	case errors.Is(err, store.ErrNotFound):
		httpx.Message(w, http.StatusNotFound, "User does not exist")
		return
	default:
		log.Error("admin totp reset failed", "actor", actor.Username, "target", target, "err", err)
		httpx.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.Data(w, http.StatusOK, "2fa secret has been disabled")
}

// HandleForceEnable handles PUT /v1/2fa/{username}. Turning a second
// factor on for someone else is never allowed, admin or not.
func (h *TwoFactorHandler) HandleForceEnable(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveAuthedUser(w, r, h.UserService)
	if !ok {
		return
	}

	_ = h.TwoFactorService.AdminForceEnable(r.Context(), actor, r.PathValue("username"))
	httpx.Message(w, http.StatusForbidden, "You are not allowed to enable 2FA.")
}
