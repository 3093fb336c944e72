package domain

// TokenPair is what a successful login returns: the short-lived access token
// and the longer-lived refresh token, both signed JWTs bound to the username.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
