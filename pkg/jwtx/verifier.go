package jwtx

import "errors"

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	// ErrMalformed is returned when the token string cannot be parsed or
	// decoded at all.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrInvalidSig is returned when the MAC does not match, including
	// tokens signed with an unexpected algorithm.
	ErrInvalidSig = errors.New("jwtx: invalid signature")

	// ErrExpired is returned when the exp claim is in the past.
	ErrExpired = errors.New("jwtx: token expired")

	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)
