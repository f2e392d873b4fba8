package handler

import (
	"net/http"

	"github.com/readshelf/library-service/internal/model"
	"github.com/readshelf/library-service/pkg/kafka"

	"github.com/labstack/echo/v4"
)

func (h *Handler) AddBook(c echo.Context) error {
	var req model.NewBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.bookSvc.AddBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) GetAllBooks(c echo.Context) error {
	books, err := h.bookSvc.ListBooks(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetAvailableBooks(c echo.Context) error {
	books, err := h.bookSvc.ListAvailableBooks(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetExistingBooks(c echo.Context) error {
	books, err := h.bookSvc.ListExistingBooks(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.bookSvc.GetBook(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.bookSvc.UpdateBook(c.Request().Context(), c.Param("bookId"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DiscontinueBook(c echo.Context) error {
	book, err := h.bookSvc.DiscontinueBook(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return httpError(err)
	}
	h.logEvent(c, kafka.ActionBookDiscontinued, book.ID)
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	bookID := c.Param("bookId")
	msg, err := h.bookSvc.DeleteBook(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	h.logEvent(c, kafka.ActionBookDeleted, bookID)
	return c.String(http.StatusOK, msg)
}

func (h *Handler) BorrowBook(c echo.Context) error {
	book, err := h.bookSvc.BorrowBook(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return httpError(err)
	}
	h.logEvent(c, kafka.ActionBookBorrowed, book.ID)
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	book, err := h.bookSvc.ReturnBook(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return httpError(err)
	}
	h.logEvent(c, kafka.ActionBookReturned, book.ID)
	return c.JSON(http.StatusOK, book)
}
