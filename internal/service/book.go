package service

import (
	"context"

	"github.com/readshelf/library-service/internal/errs"
	"github.com/readshelf/library-service/internal/model"
	"github.com/readshelf/library-service/internal/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type BookService struct {
	log   *zap.Logger
	books repository.BookRepository
	users *UserService
}

func NewBookService(books repository.BookRepository, users *UserService, log *zap.Logger) *BookService {
	return &BookService{
		log:   log.Named("book-svc"),
		books: books,
		users: users,
	}
}

func (s *BookService) isbnExists(ctx context.Context, isbn string) (bool, error) {
	_, err := s.books.GetBookByIsbn(ctx, isbn)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *BookService) AddBook(ctx context.Context, req model.NewBookRequest) (model.Book, error) {
	if req.Title == "" || req.Isbn == "" || req.Author == "" || req.NumberOfPages == nil {
		return model.Book{}, errors.Wrap(errs.ErrValidation, "Book must have a title, author, ISBN and number of pages")
	}
	if *req.NumberOfPages <= 0 {
		return model.Book{}, errors.Wrap(errs.ErrRange, "Book cannot have 0 or negative number of pages")
	}
	exists, err := s.isbnExists(ctx, req.Isbn)
	if err != nil {
		return model.Book{}, err
	}
	if exists {
		return model.Book{}, errors.Wrap(errs.ErrConflict, "Book with ISBN: "+req.Isbn+" exists!")
	}

	book := model.Book{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Author:        req.Author,
		NumberOfPages: *req.NumberOfPages,
		Isbn:          req.Isbn,
		Status:        model.StatusAvailable,
	}
	if err := s.books.CreateBook(ctx, book); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return model.Book{}, errors.Wrap(errs.ErrConflict, "Book with ISBN: "+req.Isbn+" exists!")
		}
		return model.Book{}, err
	}
	s.log.Info("book added", zap.String("id", book.ID), zap.String("isbn", book.Isbn))
	return book, nil
}

func (s *BookService) GetBook(ctx context.Context, id string) (model.Book, error) {
	book, err := s.books.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Book{}, errors.Wrap(errs.ErrNotFound, "Book with id "+id+" cannot be found")
		}
		return model.Book{}, err
	}
	return book, nil
}

func (s *BookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.books.ListBooks(ctx)
}

func (s *BookService) ListAvailableBooks(ctx context.Context) ([]model.Book, error) {
	return s.books.ListBooksByStatus(ctx, model.StatusAvailable)
}

func (s *BookService) ListExistingBooks(ctx context.Context) ([]model.Book, error) {
	return s.books.ListBooksExcludeStatus(ctx, model.StatusDiscontinued)
}

func (s *BookService) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if req.NumberOfPages != nil {
		if *req.NumberOfPages <= 0 {
			return model.Book{}, errors.Wrap(errs.ErrRange, "Book cannot have 0 or negative number of pages")
		}
		book.NumberOfPages = *req.NumberOfPages
	}
	if req.Isbn != "" && req.Isbn != book.Isbn {
		exists, err := s.isbnExists(ctx, req.Isbn)
		if err != nil {
			return model.Book{}, err
		}
		if exists {
			return model.Book{}, errors.Wrap(errs.ErrConflict, "ISBN of "+req.Isbn+" already exists!")
		}
		book.Isbn = req.Isbn
	}
	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if err := s.books.UpdateBook(ctx, book); err != nil {
		return model.Book{}, err
	}
	return book, nil
}

func (s *BookService) DiscontinueBook(ctx context.Context, id string) (model.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if book.Status != model.StatusAvailable {
		return model.Book{}, errors.Wrap(errs.ErrConflict, "Book with id "+id+" is currently being borrowed or has discontinued.")
	}
	book.Status = model.StatusDiscontinued
	if err := s.books.UpdateBook(ctx, book); err != nil {
		return model.Book{}, err
	}
	s.log.Info("book discontinued", zap.String("id", id))
	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id string) (string, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return "", err
	}
	if book.Status == model.StatusBorrowed {
		return "", errors.Wrap(errs.ErrConflict, "Book with id "+id+" is currently being borrowed.")
	}
	if err := s.books.DeleteBook(ctx, id); err != nil {
		return "", err
	}
	s.log.Info("book deleted", zap.String("id", id))
	return "Book with id " + id + " has been deleted", nil
}

// BorrowBook moves a book from AVAILABLE to BORROWED on behalf of the
// calling member, capped by the member's membership level.
func (s *BookService) BorrowBook(ctx context.Context, id string) (model.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if book.Status != model.StatusAvailable {
		return model.Book{}, errors.Wrap(errs.ErrConflict, "Book with id "+id+" is currently being borrowed or has discontinued.")
	}
	user, err := s.users.GetLoggedInUser(ctx)
	if err != nil {
		return model.Book{}, err
	}
	if len(user.BorrowedBooks) == user.MembershipLevel {
		return model.Book{}, errors.Wrap(errs.ErrConflict, "User "+user.Username+" has borrowed the maximum allowable number of books")
	}
	if err := s.books.Borrow(ctx, id, user.ID); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return model.Book{}, errors.Wrap(errs.ErrConflict, "Book with id "+id+" is currently being borrowed or has discontinued.")
		}
		return model.Book{}, err
	}
	book.Status = model.StatusBorrowed
	book.BorrowerID = &user.ID
	return book, nil
}

// ReturnBook moves a book back to AVAILABLE; only the current borrower may
// return it.
func (s *BookService) ReturnBook(ctx context.Context, id string) (model.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if book.Status != model.StatusBorrowed {
		return model.Book{}, errors.Wrap(errs.ErrConflict, "Book with id "+id+" is not being borrowed by anyone")
	}
	user, err := s.users.GetLoggedInUser(ctx)
	if err != nil {
		return model.Book{}, err
	}
	if book.BorrowerID == nil || *book.BorrowerID != user.ID {
		return model.Book{}, errors.Wrap(errs.ErrConflict, "User "+user.Username+" is not the borrower of book with id "+id)
	}
	if err := s.books.Return(ctx, id, user.ID); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return model.Book{}, errors.Wrap(errs.ErrConflict, "Book with id "+id+" is not being borrowed by anyone")
		}
		return model.Book{}, err
	}
	book.Status = model.StatusAvailable
	book.BorrowerID = nil
	return book, nil
}
