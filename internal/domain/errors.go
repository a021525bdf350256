package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrFlightNotFound  = fmt.Errorf("%w: vuelo", ErrNotFound)
	ErrTicketNotFound  = fmt.Errorf("%w: tiquete", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: usuario", ErrNotFound)
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrSoldOut         = errors.New("no quedan sillas disponibles en el vuelo")
	ErrFlightInactive  = errors.New("el vuelo no está activo")
	ErrTicketNotActive = errors.New("el tiquete no está activo")
)

// ValidationError datos del cliente mal formados; el mensaje se muestra tal cual.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// StorageError envuelve cualquier fallo del almacenamiento subyacente.
// Los repositorios nunca dejan escapar errores crudos de pgx.
type StorageError struct {
	Op    string
	Cause error
}

// NewStorageError envuelve cause con la operación que falló.
func NewStorageError(op string, cause error) *StorageError {
	return &StorageError{Op: op, Cause: cause}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("almacenamiento: %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

// TransactionFailedError indica que el bloque atómico abortó y se hizo rollback completo.
// Unwrap expone la causa original (ErrSoldOut, ErrTicketNotActive, StorageError...).
type TransactionFailedError struct {
	Cause error
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transacción fallida: %v", e.Cause)
}

func (e *TransactionFailedError) Unwrap() error { return e.Cause }

// TransactionFailed envuelve err una sola vez; nil se mantiene nil.
func TransactionFailed(err error) error {
	if err == nil {
		return nil
	}
	var txErr *TransactionFailedError
	if errors.As(err, &txErr) {
		return err
	}
	return &TransactionFailedError{Cause: err}
}
