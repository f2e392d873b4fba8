package handler

import (
	"net/http"
	"time"

	md "github.com/readshelf/library-service/pkg/middleware"

	"github.com/readshelf/library-service/internal/config"
	"github.com/readshelf/library-service/internal/model"
	"github.com/readshelf/library-service/internal/service"
	"github.com/readshelf/library-service/pkg/auth"
	"github.com/readshelf/library-service/pkg/kafka"
	"github.com/readshelf/library-service/pkg/validate"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	userSvc UserService
	bookSvc BookService
	authSvc AuthService
	audit   AuditLog
	jwtCfg  config.JWT
	log     *zap.Logger
}

func New(userSvc UserService, bookSvc BookService, authSvc AuthService, audit AuditLog, jwtCfg config.JWT, log *zap.Logger) *Handler {
	return &Handler{
		userSvc: userSvc,
		bookSvc: bookSvc,
		authSvc: authSvc,
		audit:   audit,
		jwtCfg:  jwtCfg,
		log:     log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/auth/login", h.Login)

	authed := api.Group("", md.JwtAuthentication([]byte(h.jwtCfg.SecretKey), h.jwtCfg.TokenPrefix, h.authSvc))

	librarian := md.RequireRole(auth.RoleLibrarian)
	member := md.RequireRole(auth.RoleMember)
	anyRole := md.RequireRole(auth.RoleLibrarian, auth.RoleMember)

	authed.POST("/auth/logout", h.Logout, anyRole)

	authed.POST("/registration/member", h.RegisterMember, librarian)
	authed.POST("/registration/librarian", h.RegisterLibrarian, librarian)

	authed.GET("/users/me", h.GetMe, anyRole)
	authed.PUT("/users/password", h.ChangePassword, anyRole)
	authed.GET("/users", h.GetAllUsers, librarian)
	authed.GET("/users/:userId", h.GetUser, librarian)
	authed.DELETE("/users/delete/:memberId", h.DeleteMember, librarian)
	authed.DELETE("/users/deleteself", h.DeleteSelf, member)
	authed.PUT("/users/update/:memberId", h.UpdateMember, librarian)

	authed.POST("/books/addbook", h.AddBook, librarian)
	authed.GET("/books", h.GetAllBooks, anyRole)
	authed.GET("/books/available", h.GetAvailableBooks, anyRole)
	authed.GET("/books/existing", h.GetExistingBooks, anyRole)
	authed.GET("/books/findone/:bookId", h.GetBook, anyRole)
	authed.PUT("/books/update/:bookId", h.UpdateBook, librarian)
	authed.PUT("/books/discontinue/:bookId", h.DiscontinueBook, librarian)
	authed.DELETE("/books/delete/:bookId", h.DeleteBook, librarian)
	authed.PUT("/books/borrow/:bookId", h.BorrowBook, member)
	authed.PUT("/books/return/:bookId", h.ReturnBook, member)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	token, err := h.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(md.AuthorizationHeader, h.jwtCfg.TokenPrefix+token)
	return c.String(http.StatusOK, "Logged in successfully")
}

func (h *Handler) Logout(c echo.Context) error {
	token := auth.Token(c.Request().Context())
	msg, err := h.authSvc.Logout(c.Request().Context(), token)
	if err != nil {
		return httpError(err)
	}
	return c.String(http.StatusOK, msg)
}

func (h *Handler) logEvent(c echo.Context, action, bookID string) {
	event := kafka.AuditEvent{
		Action:    action,
		Username:  auth.Username(c.Request().Context()),
		BookID:    bookID,
		Timestamp: time.Now().UTC(),
	}
	if err := h.audit.Log(event); err != nil {
		h.log.Warn("audit log", zap.String("action", action), zap.Error(err))
	}
}
