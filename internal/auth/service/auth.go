package service

import (
	"context"
	"errors"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/northbndlabs/gatekeeper/internal/auth/domain"
	"github.com/northbndlabs/gatekeeper/internal/auth/store"
	"github.com/northbndlabs/gatekeeper/pkg/cryptox"
	"github.com/northbndlabs/gatekeeper/pkg/jwtx"
	"github.com/northbndlabs/gatekeeper/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSecondFactorRequired means username and password checked out but
	// the account has an active second factor and no code was supplied.
	ErrSecondFactorRequired = errors.New("second factor required")

	// ErrInvalidToken covers every access-token failure surfaced to a
	// client, including tokens whose username no longer resolves.
	ErrInvalidToken = errors.New("invalid access token")
)

// AuthService orchestrates login: credential check, second-factor gate, and
// issuance of the access/refresh token pair.
type AuthService struct {
	Store      store.Store
	Signer     *jwtx.HS256Signer
	Verifier   jwtx.Verifier
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login authenticates the username/password pair (plus TOTP code when the
// account has an active second factor) and returns a fresh token pair.
//
// Unknown username, wrong password, and wrong code all collapse into
// ErrInvalidCredentials so a caller can't probe which factor failed.
func (s *AuthService) Login(ctx context.Context, username, password, totpCode string) (domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("password verification failed", "username", username)
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	if user.TwoFactorStatus() == domain.TwoFactorActive {
		if totpCode == "" {
			return domain.TokenPair{}, ErrSecondFactorRequired
		}
		if !totp.Validate(totpCode, *user.TOTPSecret) {
			l.Info("totp verification failed", "username", username)
			return domain.TokenPair{}, ErrInvalidCredentials
		}
	}

	// Last-login is bookkeeping, not a correctness field; a failure here
	// must not fail the login.
	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID); err != nil {
		l.Warn("failed to record last login", "username", username, "err", err)
	}

	accessToken, err := s.Signer.Sign(jwtx.NewClaims(user.Username, s.Issuer, s.AccessTTL, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshToken, err := s.Signer.Sign(jwtx.NewClaims(user.Username, s.Issuer, s.RefreshTTL, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// WhoAmI verifies an access token and resolves the identity it is bound to.
// A token whose username has since been deleted authenticates nothing, so
// it fails the same way any bad token does.
func (s *AuthService) WhoAmI(ctx context.Context, accessToken string) (domain.User, error) {
	claims, err := s.Verifier.Verify(accessToken)
	if err != nil {
		return domain.User{}, ErrInvalidToken
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidToken
		}
		return domain.User{}, err
	}

	return user, nil
}
