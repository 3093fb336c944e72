package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/northbndlabs/gatekeeper/internal/auth/service"
	"github.com/northbndlabs/gatekeeper/pkg/httpx"
	"github.com/northbndlabs/gatekeeper/pkg/slogx"
)

// RefreshHandler handles POST and DELETE /v1/auth/refresh. Both operations
// authenticate with the refresh token carried in the request body.
type RefreshHandler struct {
	RefreshService *service.RefreshService
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.Message(w, http.StatusBadRequest, "Payload is invalid")
		return
	}

	accessToken, err := h.RefreshService.Refresh(ctx, req.RefreshToken)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrTokenRevoked), errors.Is(err, service.ErrInvalidRefreshToken):
		httpx.Message(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	case errors.Is(err, service.ErrUnknownIdentity):
		httpx.Message(w, http.StatusBadRequest, "User does not exist!")
		return
	default:
		log.Error("token refresh failed", "err", err)
		httpx.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, refreshResponse{
		Message:     "Token refresh was successful",
		AccessToken: accessToken,
	})
}

func (h *RefreshHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.Message(w, http.StatusBadRequest, "Payload is invalid")
		return
	}

	err := h.RefreshService.Revoke(ctx, req.RefreshToken)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidRefreshToken):
		httpx.Message(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	default:
		log.Error("token revocation failed", "err", err)
		httpx.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.Data(w, http.StatusOK, "Successfully blacklisted token")
}
