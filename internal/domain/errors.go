package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrAuditImmutable    = errors.New("registro inmutable")
)

// DomainError asocia un mensaje legible a uno de los errores sentinela.
// errors.Is(err, ErrNotFound) sigue funcionando a través de Unwrap.
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// NotFound construye un ErrNotFound con el recurso y el id.
func NotFound(resource, id string) error {
	return &DomainError{Err: ErrNotFound, Message: fmt.Sprintf("%s con id %s no encontrado", resource, id)}
}

// Invalid construye un ErrInvalidInput con un mensaje específico.
func Invalid(format string, args ...any) error {
	return &DomainError{Err: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Immutable construye un ErrAuditImmutable con un mensaje fijo.
func Immutable(message string) error {
	return &DomainError{Err: ErrAuditImmutable, Message: message}
}

// InsufficientStockError se devuelve cuando un movimiento dejaría el stock en negativo.
// Si ProductName está presente el mensaje nombra el producto.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("Insufficient stock for product %s. Available: %d, Requested: %d",
			e.ProductName, e.Available, e.Requested)
	}
	return fmt.Sprintf("Stock insuficiente. Stock actual: %d, cantidad solicitada: %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IsBusiness indica si err es un rechazo de dominio (no una falla de infraestructura).
func IsBusiness(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrUserNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized,
		ErrForbidden, ErrConflict, ErrInsufficientStock, ErrAuditImmutable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
