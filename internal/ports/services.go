package ports

// TokenClaims is the identity carried inside a dashboard access token
type TokenClaims struct {
	UserID string
	Email  string
}

// TokenService issues and validates dashboard access tokens
type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// PasswordService hashes and verifies dashboard passwords
type PasswordService interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
