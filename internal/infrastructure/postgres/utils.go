package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx; los repos no saben si corren dentro de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// mapError traduce errores de PostgreSQL a errores de dominio conservando el mensaje original.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
	case codeCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrInvalidMovement, pgErr.ConstraintName)
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, pgErr.Message)
	}
	return err
}

// notFound convierte pgx.ErrNoRows en domain.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, mapError(err))
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// pageClause agrega LIMIT/OFFSET desde la posición pos; limit <= 0 = sin límite.
func pageClause(query string, args []any, limit, offset int) (string, []any) {
	pos := len(args) + 1
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, limit)
		pos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, offset)
	}
	return query, args
}
