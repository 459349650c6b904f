package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/domain"
)

// statusFor tabla de traducción tipo de error de dominio -> código HTTP.
var statusFor = map[domain.Kind]int{
	domain.KindNotFound:             fiber.StatusNotFound,
	domain.KindConflict:             fiber.StatusConflict,
	domain.KindInvalidArgument:      fiber.StatusBadRequest,
	domain.KindInsufficientQuantity: fiber.StatusConflict,
}

// writeError responde con el cuerpo dto.ErrorResponse adecuado al error.
// Los errores que no son de dominio se registran y se devuelven como 500 sin detalles internos.
func writeError(c *fiber.Ctx, err error) error {
	if de, ok := domain.AsError(err); ok {
		status, known := statusFor[de.Kind]
		if !known {
			status = fiber.StatusInternalServerError
		}
		msg := de.Message
		if msg == "" {
			msg = de.Error()
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: string(de.Kind), Message: msg, Violations: de.Violations})
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "la operación no terminó a tiempo; no se aplicaron cambios"})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler manejador global de Fiber: errores de ruteo (404/405) y errores no capturados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_" + strconv.Itoa(fe.Code), Message: fe.Message})
	}
	return writeError(c, err)
}
