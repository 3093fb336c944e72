package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/northbndlabs/gatekeeper/internal/auth/service"
	"github.com/northbndlabs/gatekeeper/pkg/httpx"
	"github.com/northbndlabs/gatekeeper/pkg/slogx"
)

// LoginHandler handles POST /v1/auth/login.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

type loginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		httpx.Message(w, http.StatusBadRequest, "Payload is invalid")
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Username, req.Password, req.Token)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrSecondFactorRequired):
		httpx.Message(w, http.StatusUnauthorized, "Missing 2fa token")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.Message(w, http.StatusUnauthorized, "Invalid credentials")
		return
	default:
		log.Error("login failed", "username", req.Username, "err", err)
		httpx.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Message:      "Authentication was successfully",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
