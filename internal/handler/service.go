package handler

import (
	"context"

	"github.com/readshelf/library-service/internal/model"
	"github.com/readshelf/library-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type UserService interface {
	RegisterMember(ctx context.Context, req model.NewMemberRequest) (string, error)
	RegisterLibrarian(ctx context.Context, req model.NewLibrarianRequest) (string, error)
	ChangePassword(ctx context.Context, req model.UpdateUserPasswordRequest) (string, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	GetLoggedInUser(ctx context.Context) (model.User, error)
	DeleteMember(ctx context.Context, id string) (string, error)
	DeleteSelf(ctx context.Context) (string, error)
	UpdateMember(ctx context.Context, id string, req model.UpdateMemberRequest) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type BookService interface {
	AddBook(ctx context.Context, req model.NewBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListAvailableBooks(ctx context.Context) ([]model.Book, error)
	ListExistingBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error)
	DiscontinueBook(ctx context.Context, id string) (model.Book, error)
	DeleteBook(ctx context.Context, id string) (string, error)
	BorrowBook(ctx context.Context, id string) (model.Book, error)
	ReturnBook(ctx context.Context, id string) (model.Book, error)
}

type AuthService interface {
	Login(ctx context.Context, req model.LoginRequest) (string, error)
	Logout(ctx context.Context, token string) (string, error)
	TokenIsActive(ctx context.Context, token string) (bool, error)
}

var (
	_ UserService = (*service.UserService)(nil)
	_ BookService = (*service.BookService)(nil)
	_ AuthService = (*service.AuthService)(nil)
)
