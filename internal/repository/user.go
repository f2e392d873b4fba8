package repository

import (
	"context"
	"database/sql"

	"github.com/readshelf/library-service/internal/errs"
	"github.com/readshelf/library-service/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -destination=mocks/mock.go -package=mock_repository github.com/readshelf/library-service/internal/repository UserRepository,BookRepository,TokenRepository

type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, id string) error
	BorrowedBooks(ctx context.Context, userID string) ([]model.Book, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUserRepository(db *sqlx.DB, log *zap.Logger) *userRepository {
	return &userRepository{
		db:  db,
		log: log.Named("user-repo"),
	}
}

const usersTableName = `users`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *userRepository) CreateUser(ctx context.Context, user model.User) error {
	query, args, err := qb.Insert(usersTableName).
		Columns("id", "username", "first_name", "last_name", "password", "role", "membership_level", "locked", "enabled").
		Values(user.ID, user.Username, user.FirstName, user.LastName, user.Password, user.Role, user.MembershipLevel, user.Locked, user.Enabled).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrConflict
		}
		r.log.Error("CreateUser", zap.String("q", query), zap.Error(err))
		return err
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (model.User, error) {
	query, args, err := qb.Select("id", "username", "first_name", "last_name", "password", "role", "membership_level", "locked", "enabled").
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	query, args, err := qb.Select("id", "username", "first_name", "last_name", "password", "role", "membership_level", "locked", "enabled").
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select("id", "username", "first_name", "last_name", "password", "role", "membership_level", "locked", "enabled").
		From(usersTableName).
		OrderBy("username").
		ToSql()
	if err != nil {
		return nil, err
	}

	var users []model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user model.User) error {
	query, args, err := qb.Update(usersTableName).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("password", user.Password).
		Set("membership_level", user.MembershipLevel).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Error("UpdateUser", zap.String("q", query), zap.Error(err))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id string) error {
	query, args, err := qb.Delete(usersTableName).
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

// BorrowedBooks resolves the inverse side of books.borrower_id.
func (r *userRepository) BorrowedBooks(ctx context.Context, userID string) ([]model.Book, error) {
	query, args, err := qb.Select("id", "title", "author", "number_of_pages", "isbn", "status", "borrower_id").
		From(booksTableName).
		Where(sq.Eq{"borrower_id": userID}).
		OrderBy("title").
		ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}
