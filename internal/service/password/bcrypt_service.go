package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/replywatch/replywatch/internal/ports"
)

// BcryptPasswordService hashes dashboard passwords with bcrypt
type BcryptPasswordService struct {
	cost int
}

// NewBcryptPasswordService creates a password service with the given cost
func NewBcryptPasswordService(cost int) *BcryptPasswordService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordService{cost: cost}
}

// Hash produces a bcrypt hash of the plain password
func (s *BcryptPasswordService) Hash(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

// Compare checks a plain password against a stored hash
func (s *BcryptPasswordService) Compare(hash, plain string) error {
	if hash == "" || plain == "" {
		return fmt.Errorf("passwords cannot be empty")
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

var _ ports.PasswordService = (*BcryptPasswordService)(nil)
