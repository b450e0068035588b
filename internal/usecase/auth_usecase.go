package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/ports"
	"github.com/replywatch/replywatch/internal/service/logger"
)

// ErrInvalidCredentials is returned for any failed login attempt; the
// caller cannot tell a missing account from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// LoginRequest carries dashboard login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token and the account
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// AuthUseCase handles dashboard authentication
type AuthUseCase struct {
	users    ports.UserRepository
	tokens   ports.TokenService
	password ports.PasswordService
	logger   logger.Logger
}

// NewAuthUseCase creates the auth use case
func NewAuthUseCase(users ports.UserRepository, tokens ports.TokenService, passwords ports.PasswordService, log logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.NewNoop()
	}
	return &AuthUseCase{
		users:    users,
		tokens:   tokens,
		password: passwords,
		logger:   log,
	}
}

// Login verifies credentials and issues an access token
func (uc *AuthUseCase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		uc.logger.Warn(ctx, "login failed: user lookup", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}

	if err := uc.password.Compare(user.PasswordHash, req.Password); err != nil {
		uc.logger.Warn(ctx, "login failed: password mismatch", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}

	accessToken, err := uc.tokens.GenerateAccessToken(ports.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info(ctx, "user logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	return &LoginResponse{AccessToken: accessToken, User: user}, nil
}
