package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/northbndlabs/gatekeeper/internal/auth/domain"
	"github.com/northbndlabs/gatekeeper/internal/auth/store"
)

func reload(t *testing.T, s store.Store, username string) domain.User {
	t.Helper()
	u, err := s.Users().GetUserByUsername(context.Background(), username)
	require.NoError(t, err)
	return u
}

func TestEnrollmentLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &TwoFactorService{Store: s, Issuer: testIssuer}
	user := seedUser(t, s, "frank", domain.RoleUser)

	require.Equal(t, domain.TwoFactorDisabled, user.TwoFactorStatus())

	enrollment, err := svc.BeginEnrollment(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.True(t, strings.HasPrefix(enrollment.URI, "otpauth://totp/"))
	require.Contains(t, enrollment.URI, enrollment.Secret)
	require.Contains(t, enrollment.URI, "frank")

	user = reload(t, s, "frank")
	require.Equal(t, domain.TwoFactorPending, user.TwoFactorStatus())

	t.Run("uri is available while pending", func(t *testing.T) {
		uri, err := svc.EnrollmentURI(ctx, user)
		require.NoError(t, err)
		require.Contains(t, uri, enrollment.Secret)
	})

	t.Run("re-enrolling while pending replaces the secret", func(t *testing.T) {
		again, err := svc.BeginEnrollment(ctx, user)
		require.NoError(t, err)
		require.NotEqual(t, enrollment.Secret, again.Secret)

		user = reload(t, s, "frank")
		require.Equal(t, domain.TwoFactorPending, user.TwoFactorStatus())
		enrollment = again
	})

	t.Run("activation requires a valid code", func(t *testing.T) {
		require.ErrorIs(t, svc.Activate(ctx, user, ""), ErrCodeRequired)
		require.ErrorIs(t, svc.Activate(ctx, user, "000000"), ErrInvalidCode)

		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.Activate(ctx, user, code))

		user = reload(t, s, "frank")
		require.Equal(t, domain.TwoFactorActive, user.TwoFactorStatus())
	})

	t.Run("active factor blocks re-enrollment", func(t *testing.T) {
		_, err := svc.BeginEnrollment(ctx, user)
		require.ErrorIs(t, err, ErrAlreadyActive)
	})

	t.Run("uri is withheld once active", func(t *testing.T) {
		_, err := svc.EnrollmentURI(ctx, user)
		require.ErrorIs(t, err, ErrNotInSetup)
	})

	t.Run("deactivation requires a valid code while active", func(t *testing.T) {
		require.ErrorIs(t, svc.Deactivate(ctx, user, ""), ErrCodeRequired)
		require.ErrorIs(t, svc.Deactivate(ctx, user, "000000"), ErrInvalidCode)

		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.Deactivate(ctx, user, code))

		user = reload(t, s, "frank")
		require.Equal(t, domain.TwoFactorDisabled, user.TwoFactorStatus())
	})

	t.Run("deactivating a disabled factor is a no-op", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(ctx, user, ""))
	})
}

func TestAbandonPendingEnrollment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &TwoFactorService{Store: s, Issuer: testIssuer}
	user := seedUser(t, s, "grace", domain.RoleUser)

	_, err := svc.BeginEnrollment(ctx, user)
	require.NoError(t, err)

	// A pending enrollment was never confirmed, so no code is needed to
	// walk away from it.
	user = reload(t, s, "grace")
	require.NoError(t, svc.Deactivate(ctx, user, ""))

	user = reload(t, s, "grace")
	require.Equal(t, domain.TwoFactorDisabled, user.TwoFactorStatus())
}

func TestActivateWithoutEnrollment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &TwoFactorService{Store: s, Issuer: testIssuer}
	user := seedUser(t, s, "heidi", domain.RoleUser)

	require.ErrorIs(t, svc.Activate(ctx, user, "123456"), ErrNotSetUp)
}

func TestAdminReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	svc := &TwoFactorService{Store: s, Issuer: testIssuer}

	admin := seedUser(t, s, "root", domain.RoleAdmin)
	plain := seedUser(t, s, "ivan", domain.RoleUser)

	enrollment, err := svc.BeginEnrollment(ctx, plain)
	require.NoError(t, err)
	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, reload(t, s, "ivan"), code))

	t.Run("non-admin may not reset others", func(t *testing.T) {
		require.ErrorIs(t, svc.AdminReset(ctx, plain, "root"), ErrForbidden)
	})

	t.Run("admin resets without a code", func(t *testing.T) {
		require.NoError(t, svc.AdminReset(ctx, admin, "ivan"))
		require.Equal(t, domain.TwoFactorDisabled, reload(t, s, "ivan").TwoFactorStatus())
	})

	t.Run("reset of a clean account still succeeds", func(t *testing.T) {
		require.NoError(t, svc.AdminReset(ctx, admin, "ivan"))
	})

	t.Run("unknown target reported", func(t *testing.T) {
		require.ErrorIs(t, svc.AdminReset(ctx, admin, "nobody"), store.ErrNotFound)
	})

	t.Run("force-enable is never allowed, admin or not", func(t *testing.T) {
		require.ErrorIs(t, svc.AdminForceEnable(ctx, admin, "ivan"), ErrForbidden)
		require.ErrorIs(t, svc.AdminForceEnable(ctx, plain, "ivan"), ErrForbidden)
	})
}
