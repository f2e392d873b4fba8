package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/readshelf/library-service/pkg/auth"
	"github.com/readshelf/library-service/pkg/logger"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const AuthorizationHeader = "Authorization"

// TokenChecker reports whether a signed token is still active, i.e. it has
// been issued and not revoked by logout or account deletion.
type TokenChecker interface {
	TokenIsActive(ctx context.Context, token string) (bool, error)
}

// JwtAuthentication verifies the bearer token's signature, expiry and
// revocation status, then attaches the caller's identity to the request
// context.
func JwtAuthentication(secret []byte, prefix string, checker TokenChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorization := c.Request().Header.Get(AuthorizationHeader)
			if authorization == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No Authorization Header")
			}
			if !strings.HasPrefix(authorization, prefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization Header")
			}
			tokenStr := strings.TrimPrefix(authorization, prefix)
			claims := new(auth.Claims)

			token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "JwtAccessDenied")
			}
			if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
				return echo.NewHTTPError(http.StatusUnauthorized, "TokenExpired")
			}

			active, err := checker.TokenIsActive(c.Request().Context(), tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			if !active {
				return echo.NewHTTPError(http.StatusUnauthorized, "TokenRevoked")
			}

			req := c.Request()
			ctx := auth.SetAuthContext(req.Context(), claims.Subject, claims.Role)
			ctx = auth.SetToken(ctx, tokenStr)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// RequireRole gates an endpoint to the given roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := auth.Role(c.Request().Context())
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "AccessDenied")
		}
	}
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig() middleware.RequestLoggerConfig {
	cfg := logger.Log{LogLevel: zapcore.DebugLevel, Sink: ""}
	log := logger.NewLogger(cfg, "echo")
	c := middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
	return c
}
