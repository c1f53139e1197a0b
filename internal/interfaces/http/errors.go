package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// errorMapping traduce errores de dominio a status y código HTTP. El orden importa:
// se toma la primera coincidencia con errors.Is.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrAlreadyConfirmed, fiber.StatusConflict, "ALREADY_CONFIRMED"},
	{domain.ErrConcurrencyConflict, fiber.StatusConflict, "CONCURRENCY_CONFLICT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidMovement, fiber.StatusUnprocessableEntity, "INVALID_MOVEMENT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

// writeError responde con el ErrorResponse que corresponde a err.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
