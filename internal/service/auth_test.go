package service_test

import (
	"context"
	"testing"

	"github.com/readshelf/library-service/internal/config"
	"github.com/readshelf/library-service/internal/errs"
	"github.com/readshelf/library-service/internal/model"
	mock_repository "github.com/readshelf/library-service/internal/repository/mocks"
	"github.com/readshelf/library-service/internal/service"
	"github.com/readshelf/library-service/pkg/auth"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var jwtCfg = config.JWT{
	SecretKey:                "test-secret",
	TokenPrefix:              "Bearer ",
	TokenExpirationAfterDays: 14,
}

func newAuthService(t *testing.T) (*service.AuthService, *mock_repository.MockUserRepository, *mock_repository.MockTokenRepository) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	users := mock_repository.NewMockUserRepository(c)
	tokens := mock_repository.NewMockTokenRepository(c)
	return service.NewAuthService(users, tokens, jwtCfg, zap.NewExample()), users, tokens
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("mjolnir"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := model.User{ID: "u1", Username: "thor", Password: string(hash), Role: model.RoleMember}

	t.Run("mints a verifiable token and persists it", func(t *testing.T) {
		svc, users, tokens := newAuthService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(stored, nil)
		tokens.EXPECT().AddToken(ctx, gomock.Any(), "thor").Return(nil)

		token, err := svc.Login(ctx, model.LoginRequest{Username: "thor", Password: "mjolnir"})
		require.NoError(t, err)

		claims := new(auth.Claims)
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(jwtCfg.SecretKey), nil
		})
		require.NoError(t, err)
		require.True(t, parsed.Valid)
		require.Equal(t, "thor", claims.Subject)
		require.Equal(t, model.RoleMember, claims.Role)
		require.NotNil(t, claims.IssuedAt)
		require.NotNil(t, claims.ExpiresAt)
	})

	t.Run("consecutive logins mint distinct tokens", func(t *testing.T) {
		svc, users, tokens := newAuthService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(stored, nil).Times(2)
		tokens.EXPECT().AddToken(ctx, gomock.Any(), "thor").Return(nil).Times(2)

		first, err := svc.Login(ctx, model.LoginRequest{Username: "thor", Password: "mjolnir"})
		require.NoError(t, err)
		second, err := svc.Login(ctx, model.LoginRequest{Username: "thor", Password: "mjolnir"})
		require.NoError(t, err)
		require.NotEqual(t, first, second)

		claims := new(auth.Claims)
		_, err = jwt.ParseWithClaims(second, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(jwtCfg.SecretKey), nil
		})
		require.NoError(t, err)
		require.NotEmpty(t, claims.ID)
	})

	t.Run("username is matched case-insensitively", func(t *testing.T) {
		svc, users, tokens := newAuthService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(stored, nil)
		tokens.EXPECT().AddToken(ctx, gomock.Any(), "thor").Return(nil)

		_, err := svc.Login(ctx, model.LoginRequest{Username: "Thor", Password: "mjolnir"})
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _ := newAuthService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(stored, nil)

		_, err := svc.Login(ctx, model.LoginRequest{Username: "thor", Password: "stormbreaker"})
		require.ErrorIs(t, err, service.ErrBadCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, users, _ := newAuthService(t)
		users.EXPECT().GetUserByUsername(ctx, "nobody").Return(model.User{}, errs.ErrNotFound)

		_, err := svc.Login(ctx, model.LoginRequest{Username: "nobody", Password: "x"})
		require.ErrorIs(t, err, service.ErrBadCredentials)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		svc, _, tokens := newAuthService(t)
		tokens.EXPECT().DeleteToken(ctx, "tok").Return(nil)

		msg, err := svc.Logout(ctx, "tok")
		require.NoError(t, err)
		require.Equal(t, "Logged out successfully", msg)
	})

	t.Run("unknown token fails with not-found", func(t *testing.T) {
		svc, _, tokens := newAuthService(t)
		tokens.EXPECT().DeleteToken(ctx, "gone").Return(errs.ErrNotFound)

		_, err := svc.Logout(ctx, "gone")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestAuthService_TokenIsActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, tokens := newAuthService(t)
	tokens.EXPECT().TokenExists(ctx, "tok").Return(true, nil)
	tokens.EXPECT().TokenExists(ctx, "revoked").Return(false, nil)

	active, err := svc.TokenIsActive(ctx, "tok")
	require.NoError(t, err)
	require.True(t, active)

	active, err = svc.TokenIsActive(ctx, "revoked")
	require.NoError(t, err)
	require.False(t, active)
}
