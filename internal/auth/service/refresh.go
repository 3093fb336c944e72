package service

import (
	"context"
	"errors"
	"time"

	"github.com/northbndlabs/gatekeeper/internal/auth/revocation"
	"github.com/northbndlabs/gatekeeper/internal/auth/store"
	"github.com/northbndlabs/gatekeeper/pkg/jwtx"
	"github.com/northbndlabs/gatekeeper/pkg/slogx"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrTokenRevoked means the refresh token was explicitly blacklisted.
	// It outranks signature/expiry failures: a revoked token stays revoked
	// even after it expires.
	ErrTokenRevoked = errors.New("refresh token revoked")

	// ErrUnknownIdentity means the token verified but its username no
	// longer resolves to an account.
	ErrUnknownIdentity = errors.New("unknown identity")
)

// RefreshService exchanges valid refresh tokens for new access tokens and
// handles revocation. Refresh tokens are never rotated: the same refresh
// token keeps working until it expires or is revoked.
type RefreshService struct {
	Store       store.Store
	Revocations revocation.List
	Verifier    jwtx.Verifier
	Signer      *jwtx.HS256Signer
	Issuer      string
	AccessTTL   time.Duration
}

// Refresh mints a new access token for the identity carried by a valid,
// unrevoked refresh token. The revocation check comes first so clients see
// a consistent answer for a blacklisted token regardless of its age.
func (s *RefreshService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	revoked, err := s.Revocations.Contains(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnknownIdentity
		}
		return "", err
	}

	return s.Signer.Sign(jwtx.NewClaims(user.Username, s.Issuer, s.AccessTTL, time.Now()))
}

// Revoke blacklists a refresh token until its natural expiry. Revoking an
// already-revoked token succeeds without touching the list. Tokens that
// fail verification, expired ones included, are rejected rather than
// stored; they can never authenticate again anyway.
func (s *RefreshService) Revoke(ctx context.Context, refreshToken string) error {
	revoked, err := s.Revocations.Contains(ctx, refreshToken)
	if err != nil {
		return err
	}
	if revoked {
		return nil
	}

	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.Revocations.Add(ctx, refreshToken, expiresAt); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("refresh token revoked", "username", claims.Username)
	return nil
}
