package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
)

// Querier lo que los repositorios necesitan de la conexión: lo cumplen *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE usados para traducir errores.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidTextRepr     = "22P02" // p.ej. UUID mal formado
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// isFKViolation verifica si un error es una violación de llave foránea (23503).
func isFKViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// isCheckViolation verifica si un error es una violación de CHECK (23514).
func isCheckViolation(err error) bool { return pgCode(err) == codeCheckViolation }

// isInvalidText un literal que Postgres no pudo convertir (UUID inválido en la URL, etc.).
func isInvalidText(err error) bool { return pgCode(err) == codeInvalidTextRepr }

// storageErr envuelve err como *domain.StorageError; nil se mantiene nil.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return domain.NewStorageError(op, err)
}

// notFoundOr traduce ErrNoRows y UUID inválido en (nil, nil): el caller decide el not-found tipado.
func notFoundOr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
		return nil
	}
	return storageErr(op, err)
}

// likePattern arma el patrón de subcadena para ILIKE escapando los comodines del usuario.
func likePattern(s string) string {
	out := make([]rune, 0, len(s)+2)
	out = append(out, '%')
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	out = append(out, '%')
	return string(out)
}

// argList acumula argumentos posicionales ($1, $2, ...) para consultas con filtros opcionales.
type argList struct {
	args []any
}

func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}
