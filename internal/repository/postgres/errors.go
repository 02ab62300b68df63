package postgres

import (
	"context"
	"errors"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// wrapErr classifies a pgx error into a *domain.RepoError. nil stays nil.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var repoErr *domain.RepoError
	if errors.As(err, &repoErr) {
		return err
	}

	wrapped := &domain.RepoError{Op: op, Kind: domain.KindBackend, Err: err}
	if errors.Is(err, pgx.ErrNoRows) {
		wrapped.Kind = domain.KindNotFound
		return wrapped
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		wrapped.Code = pgErr.Code
		switch pgErr.Code {
		case pgUniqueViolation:
			wrapped.Kind = domain.KindDuplicate
		case pgForeignKeyViolation:
			wrapped.Kind = domain.KindReference
		}
	}
	return wrapped
}

// notFound is returned when an UPDATE or DELETE matched no row.
func notFound(op string) error {
	return &domain.RepoError{Op: op, Kind: domain.KindNotFound, Err: pgx.ErrNoRows}
}

// collect scans every row into T and maps it with toDomain.
func collect[R any, T any](rows pgx.Rows, toDomain func(R) T) ([]T, error) {
	scanned, err := pgx.CollectRows(rows, pgx.RowToStructByName[R])
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(scanned))
	for _, r := range scanned {
		out = append(out, toDomain(r))
	}
	return out, nil
}

// collectOne scans exactly one row; pgx.ErrNoRows when there is none.
func collectOne[R any, T any](rows pgx.Rows, toDomain func(R) T) (*T, error) {
	r, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[R])
	if err != nil {
		return nil, err
	}
	out := toDomain(r)
	return &out, nil
}
