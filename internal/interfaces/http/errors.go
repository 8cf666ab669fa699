package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockdelta/internal/application/dto"
	"github.com/jhoicas/stockdelta/internal/domain"
)

// errorStatus traduce errores de dominio a código HTTP y código de error.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMissingSnapshot):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrNoExecutions):
		return fiber.StatusConflict, "NO_EXECUTIONS"
	case errors.Is(err, domain.ErrLedgerInconsistency):
		return fiber.StatusConflict, "LEDGER_INCONSISTENT"
	case errors.Is(err, domain.ErrAmountOutOfRange):
		return fiber.StatusUnprocessableEntity, "AMOUNT_OUT_OF_RANGE"
	case errors.Is(err, domain.ErrFetchExhausted):
		return fiber.StatusBadGateway, "FETCH_EXHAUSTED"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "TIMEOUT"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
