package repository

import (
	"context"
	"database/sql"

	"github.com/readshelf/library-service/internal/errs"
	"github.com/readshelf/library-service/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type BookRepository interface {
	CreateBook(ctx context.Context, book model.Book) error
	GetBookByID(ctx context.Context, id string) (model.Book, error)
	GetBookByIsbn(ctx context.Context, isbn string) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListBooksByStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error)
	ListBooksExcludeStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error)
	UpdateBook(ctx context.Context, book model.Book) error
	DeleteBook(ctx context.Context, id string) error
	Borrow(ctx context.Context, bookID, borrowerID string) error
	Return(ctx context.Context, bookID, borrowerID string) error
}

type bookRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBookRepository(db *sqlx.DB, log *zap.Logger) *bookRepository {
	return &bookRepository{
		db:  db,
		log: log.Named("book-repo"),
	}
}

const booksTableName = `books`

const bookColumns = "id, title, author, number_of_pages, isbn, status, borrower_id"

func (r *bookRepository) CreateBook(ctx context.Context, book model.Book) error {
	query, args, err := qb.Insert(booksTableName).
		Columns("id", "title", "author", "number_of_pages", "isbn", "status", "borrower_id").
		Values(book.ID, book.Title, book.Author, book.NumberOfPages, book.Isbn, book.Status, book.BorrowerID).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrConflict
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return err
	}
	return nil
}

func (r *bookRepository) GetBookByID(ctx context.Context, id string) (model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) GetBookByIsbn(ctx context.Context, isbn string) (model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"isbn": isbn}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) ListBooks(ctx context.Context) ([]model.Book, error) {
	return r.list(ctx, qb.Select(bookColumns).From(booksTableName).OrderBy("title"))
}

func (r *bookRepository) ListBooksByStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error) {
	return r.list(ctx, qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"status": status}).
		OrderBy("title"))
}

func (r *bookRepository) ListBooksExcludeStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error) {
	return r.list(ctx, qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.NotEq{"status": status}).
		OrderBy("title"))
}

func (r *bookRepository) list(ctx context.Context, builder sq.SelectBuilder) ([]model.Book, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) UpdateBook(ctx context.Context, book model.Book) error {
	query, args, err := qb.Update(booksTableName).
		Set("title", book.Title).
		Set("author", book.Author).
		Set("number_of_pages", book.NumberOfPages).
		Set("isbn", book.Isbn).
		Set("status", book.Status).
		Set("borrower_id", book.BorrowerID).
		Where(sq.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ErrConflict
		}
		r.log.Error("UpdateBook", zap.String("q", query), zap.Error(err))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *bookRepository) DeleteBook(ctx context.Context, id string) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Borrow flips AVAILABLE to BORROWED in one guarded statement so that two
// concurrent borrows of the same book serialize on the row update.
func (r *bookRepository) Borrow(ctx context.Context, bookID, borrowerID string) error {
	q := `
update books
    set status = 'BORROWED', borrower_id = $2
where id = $1 and status = 'AVAILABLE'`
	res, err := r.db.ExecContext(ctx, q, bookID, borrowerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrConflict
	}
	return nil
}

// Return flips BORROWED back to AVAILABLE, only for the current borrower.
func (r *bookRepository) Return(ctx context.Context, bookID, borrowerID string) error {
	q := `
update books
    set status = 'AVAILABLE', borrower_id = null
where id = $1 and status = 'BORROWED' and borrower_id = $2`
	res, err := r.db.ExecContext(ctx, q, bookID, borrowerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrConflict
	}
	return nil
}
