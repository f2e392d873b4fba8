package handler

import (
	"net/http"

	"github.com/readshelf/library-service/internal/errs"
	"github.com/readshelf/library-service/internal/model"
	"github.com/readshelf/library-service/pkg/kafka"

	"github.com/labstack/echo/v4"
)

func httpError(err error) *echo.HTTPError {
	return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
}

func (h *Handler) RegisterMember(c echo.Context) error {
	var req model.NewMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msg, err := h.userSvc.RegisterMember(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	h.logEvent(c, kafka.ActionMemberRegistered, "")
	return c.String(http.StatusOK, msg)
}

func (h *Handler) RegisterLibrarian(c echo.Context) error {
	var req model.NewLibrarianRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msg, err := h.userSvc.RegisterLibrarian(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	h.logEvent(c, kafka.ActionLibrarianRegistered, "")
	return c.String(http.StatusOK, msg)
}

func (h *Handler) GetMe(c echo.Context) error {
	user, err := h.userSvc.GetLoggedInUser(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req model.UpdateUserPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msg, err := h.userSvc.ChangePassword(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.String(http.StatusOK, msg)
}

func (h *Handler) GetAllUsers(c echo.Context) error {
	users, err := h.userSvc.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	user, err := h.userSvc.GetUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteMember(c echo.Context) error {
	msg, err := h.userSvc.DeleteMember(c.Request().Context(), c.Param("memberId"))
	if err != nil {
		return httpError(err)
	}
	return c.String(http.StatusOK, msg)
}

func (h *Handler) DeleteSelf(c echo.Context) error {
	msg, err := h.userSvc.DeleteSelf(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.String(http.StatusOK, msg)
}

func (h *Handler) UpdateMember(c echo.Context) error {
	var req model.UpdateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user, err := h.userSvc.UpdateMember(c.Request().Context(), c.Param("memberId"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
