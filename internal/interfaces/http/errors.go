package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/pkg/logger"
	"github.com/jhoicas/pos-inventario/pkg/validator"
)

// Códigos estables del campo "error".
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
	CodeAuditImmutable    = "AUDIT_IMMUTABLE"
	CodeValidation        = "VALIDATION"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL"
)

const msgInternal = "Error interno del servidor"

// errInvalidBody el cuerpo no es JSON válido para el DTO.
var errInvalidBody = &domain.DomainError{Err: domain.ErrInvalidInput, Message: "cuerpo inválido"}

// respondError escribe el cuerpo de error estándar.
func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Status:     "error",
		Error:      code,
		StatusCode: status,
		Message:    message,
		Timestamp:  time.Now().UTC(),
		Path:       c.Path(),
	})
}

// classify traduce un error a (status HTTP, código, mensaje público).
func classify(err error) (int, string, string) {
	var verr *validator.Error
	var stockErr *domain.InsufficientStockError
	var fe *fiber.Error
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, CodeValidation, verr.Error()
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, CodeInsufficientStock, stockErr.Error()
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, CodeConflict, err.Error()
	case errors.Is(err, domain.ErrAuditImmutable):
		return fiber.StatusBadRequest, CodeAuditImmutable, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, CodeValidation, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, CodeUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, CodeForbidden, err.Error()
	case errors.As(err, &fe):
		return fe.Code, fiberCode(fe.Code), fe.Message
	}
	return fiber.StatusInternalServerError, CodeInternal, msgInternal
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return CodeValidation
	case fiber.StatusConflict:
		return CodeConflict
	}
	if status >= 500 {
		return CodeInternal
	}
	return "HTTP_ERROR"
}

// ErrorHandler es el fiber.ErrorHandler de la app: los handlers devuelven el
// error de dominio tal cual y aquí se traduce. Los 500 se registran con la cadena completa.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code, message := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("user_id", GetUserID(c)).
				Msg("error interno")
		}
		return respondError(c, status, code, message)
	}
}

// parseBody decodifica el JSON y valida los tags del DTO.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return validator.Struct(out)
}

// parseQuery decodifica los query params y valida los tags del DTO.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.Invalid("parámetros de consulta inválidos")
	}
	return validator.Struct(out)
}
