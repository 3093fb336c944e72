package domain

import "net/url"

// TwoFactorStatus is the per-identity enrollment state, derived from the
// (totp_secret, totp_enabled) pair:
//
//	Disabled: no secret stored
//	Pending:  secret stored, not yet activated
//	Active:   secret stored and activated
type TwoFactorStatus int

const (
	TwoFactorDisabled TwoFactorStatus = iota
	TwoFactorPending
	TwoFactorActive
)

func (s TwoFactorStatus) String() string {
	switch s {
	case TwoFactorPending:
		return "pending"
	case TwoFactorActive:
		return "active"
	default:
		return "disabled"
	}
}

// TwoFactorStatus derives the enrollment state for u.
func (u User) TwoFactorStatus() TwoFactorStatus {
	switch {
	case u.TOTPSecret == nil || *u.TOTPSecret == "":
		return TwoFactorDisabled
	case u.TOTPEnabled:
		return TwoFactorActive
	default:
		return TwoFactorPending
	}
}

// Enrollment is returned when a second-factor setup begins: the raw secret
// and the otpauth:// URI an external collaborator renders as a QR code.
type Enrollment struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

// ProvisioningURI rebuilds the otpauth:// URI for an already-stored secret,
// in the key-uri format authenticator apps expect.
func ProvisioningURI(issuer, username, secret string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", issuer)
	v.Set("period", "30")
	v.Set("digits", "6")
	v.Set("algorithm", "SHA1")

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + issuer + ":" + username,
		RawQuery: v.Encode(),
	}
	return u.String()
}
