package service

import (
	"context"
	"strings"
	"time"

	"github.com/readshelf/library-service/internal/config"
	"github.com/readshelf/library-service/internal/errs"
	"github.com/readshelf/library-service/internal/model"
	"github.com/readshelf/library-service/internal/repository"
	"github.com/readshelf/library-service/pkg/auth"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("invalid username or password")

type AuthService struct {
	log    *zap.Logger
	users  repository.UserRepository
	tokens repository.TokenRepository
	cfg    config.JWT
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, cfg config.JWT, log *zap.Logger) *AuthService {
	return &AuthService{
		log:    log.Named("auth-svc"),
		users:  users,
		tokens: tokens,
		cfg:    cfg,
	}
}

// Login verifies the credentials, mints a signed token and records it in the
// token store. The returned string is the bare token, without prefix.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.ToLower(req.Username))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", ErrBadCredentials
	}

	now := time.Now()
	claims := &auth.Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique per session. Without it two logins inside the same
			// second mint byte-identical tokens and collide in the store.
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.AddDate(0, 0, s.cfg.TokenExpirationAfterDays)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	if err := s.tokens.AddToken(ctx, token, user.Username); err != nil {
		return "", err
	}
	s.log.Info("login", zap.String("username", user.Username))
	return token, nil
}

// Logout revokes the session. A token that is not in the store fails with
// not-found.
func (s *AuthService) Logout(ctx context.Context, token string) (string, error) {
	if err := s.tokens.DeleteToken(ctx, token); err != nil {
		return "", err
	}
	return "Logged out successfully", nil
}

// TokenIsActive satisfies the authentication middleware's revocation check.
func (s *AuthService) TokenIsActive(ctx context.Context, token string) (bool, error) {
	return s.tokens.TokenExists(ctx, token)
}
