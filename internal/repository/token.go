package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/readshelf/library-service/internal/errs"
	"github.com/readshelf/library-service/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type TokenRepository interface {
	AddToken(ctx context.Context, token, username string) error
	TokenExists(ctx context.Context, token string) (bool, error)
	DeleteToken(ctx context.Context, token string) error
	DeleteTokensByUsername(ctx context.Context, username string) error
	ListTokensByUsername(ctx context.Context, username string) ([]model.Token, error)
}

type tokenRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewTokenRepository(db *sqlx.DB, log *zap.Logger) *tokenRepository {
	return &tokenRepository{
		db:  db,
		log: log.Named("token-repo"),
	}
}

const tokensTableName = `tokens`

func (r *tokenRepository) AddToken(ctx context.Context, token, username string) error {
	query, args, err := qb.Insert(tokensTableName).
		Columns("id", "username", "created_at").
		Values(token, username, time.Now().UTC()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("AddToken", zap.String("username", username), zap.Error(err))
		return err
	}
	return nil
}

func (r *tokenRepository) TokenExists(ctx context.Context, token string) (bool, error) {
	q := `select exists(select 1 from tokens where id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *tokenRepository) DeleteToken(ctx context.Context, token string) error {
	query, args, err := qb.Delete(tokensTableName).
		Where(sq.Eq{"id": token}).
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

func (r *tokenRepository) DeleteTokensByUsername(ctx context.Context, username string) error {
	query, args, err := qb.Delete(tokensTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *tokenRepository) ListTokensByUsername(ctx context.Context, username string) ([]model.Token, error) {
	query, args, err := qb.Select("id", "username", "created_at").
		From(tokensTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var tokens []model.Token
	if err := r.db.SelectContext(ctx, &tokens, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tokens, nil
}
