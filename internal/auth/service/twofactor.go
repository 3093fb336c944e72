package service

import (
	"context"
	"errors"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/northbndlabs/gatekeeper/internal/auth/domain"
	"github.com/northbndlabs/gatekeeper/internal/auth/store"
	"github.com/northbndlabs/gatekeeper/pkg/slogx"
)

var (
	// ErrNotSetUp means no enrollment secret exists for the account.
	ErrNotSetUp = errors.New("second factor is not set up")

	// ErrNotInSetup means the account is not in the pending enrollment
	// state, so there is no provisioning URI to hand out.
	ErrNotInSetup = errors.New("second factor is not in setup state")

	// ErrAlreadyActive means the second factor is already enforced and a
	// fresh enrollment would silently invalidate the holder's authenticator.
	ErrAlreadyActive = errors.New("second factor is already active")

	ErrInvalidCode  = errors.New("invalid one-time code")
	ErrCodeRequired = errors.New("one-time code required")

	// ErrForbidden is returned for operations the caller's role does not
	// permit, and unconditionally for force-enabling a second factor:
	// only the account holder can prove possession of the authenticator.
	ErrForbidden = errors.New("access denied")
)

// TwoFactorService drives the TOTP enrollment lifecycle. An account moves
// from disabled to pending when a secret is provisioned, to active once the
// holder confirms a code, and back to disabled on reset.
type TwoFactorService struct {
	Store  store.Store
	Issuer string
}

// BeginEnrollment provisions a fresh TOTP secret and returns it alongside
// the otpauth URI. Re-enrolling while pending replaces the secret; an
// active factor must be deactivated first.
func (s *TwoFactorService) BeginEnrollment(ctx context.Context, user domain.User) (domain.Enrollment, error) {
	if user.TwoFactorStatus() == domain.TwoFactorActive {
		return domain.Enrollment{}, ErrAlreadyActive
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.Enrollment{}, err
	}

	if err := s.Store.Users().UpdateTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return domain.Enrollment{}, err
	}

	slogx.FromContext(ctx).Info("totp enrollment started", "username", user.Username)

	return domain.Enrollment{
		Secret: key.Secret(),
		URI:    key.URL(),
	}, nil
}

// EnrollmentURI rebuilds the provisioning URI for an enrollment that is
// still pending confirmation.
func (s *TwoFactorService) EnrollmentURI(ctx context.Context, user domain.User) (string, error) {
	if user.TwoFactorStatus() != domain.TwoFactorPending {
		return "", ErrNotInSetup
	}
	return domain.ProvisioningURI(s.Issuer, user.Username, *user.TOTPSecret), nil
}

// Activate turns enforcement on once the holder proves possession of the
// authenticator with a current code. Activating an already-active factor
// with a valid code is a no-op success.
func (s *TwoFactorService) Activate(ctx context.Context, user domain.User, code string) error {
	if user.TwoFactorStatus() == domain.TwoFactorDisabled {
		return ErrNotSetUp
	}
	if code == "" {
		return ErrCodeRequired
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return ErrInvalidCode
	}

	if err := s.Store.Users().EnableTOTP(ctx, user.ID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("totp activated", "username", user.Username)
	return nil
}

// Deactivate clears the second factor. A pending enrollment can be
// abandoned without a code; an active factor requires a current code so a
// stolen session can't silently strip the account's protection. Disabled
// accounts succeed without any change.
func (s *TwoFactorService) Deactivate(ctx context.Context, user domain.User, code string) error {
	switch user.TwoFactorStatus() {
	case domain.TwoFactorDisabled:
		return nil
	case domain.TwoFactorPending:
		return s.Store.Users().ClearTOTP(ctx, user.ID)
	default:
		if code == "" {
			return ErrCodeRequired
		}
		if !totp.Validate(code, *user.TOTPSecret) {
			return ErrInvalidCode
		}
		if err := s.Store.Users().ClearTOTP(ctx, user.ID); err != nil {
			return err
		}
		slogx.FromContext(ctx).Info("totp deactivated", "username", user.Username)
		return nil
	}
}

// AdminReset force-disables another account's second factor. Only admins
// may do this; the target's secret and enabled flag are cleared in one
// step regardless of the factor's current state.
func (s *TwoFactorService) AdminReset(ctx context.Context, actor domain.User, targetUsername string) error {
	if actor.RoleName != domain.RoleAdmin {
		return ErrForbidden
	}

	target, err := s.Store.Users().GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}

	if err := s.Store.Users().ClearTOTP(ctx, target.ID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("totp reset by admin",
		"actor", actor.Username, "target", target.Username)
	return nil
}

// AdminForceEnable always fails: an admin can take a second factor away
// but can never turn one on, because activation requires a code only the
// account holder's authenticator can produce.
func (s *TwoFactorService) AdminForceEnable(ctx context.Context, actor domain.User, targetUsername string) error {
	return ErrForbidden
}
