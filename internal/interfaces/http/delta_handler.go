package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockdelta/internal/application/dto"
	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// DeltaReader lectura de tablas de cambios ya escritas.
type DeltaReader interface {
	Get(ctx context.Context, customerID string, current, previous entity.Day) ([]entity.DeltaRow, error)
}

// DeltaHandler consulta de cambios de stock entre dos días.
type DeltaHandler struct {
	deltas DeltaReader
}

// NewDeltaHandler construye el handler.
func NewDeltaHandler(deltas DeltaReader) *DeltaHandler {
	return &DeltaHandler{deltas: deltas}
}

// Get godoc
// @Summary      Consultar los cambios de stock entre dos días
// @Tags         deltas
// @Produce      json
// @Param        customer  path   string  true  "id del cliente"
// @Param        current   query  string  true  "día actual (YYYYMMDD o YYYY-MM-DD)"
// @Param        previous  query  string  true  "día previo, anterior a current"
// @Success      200  {object}  dto.DeltaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customers/{customer}/deltas [get]
func (h *DeltaHandler) Get(c *fiber.Ctx) error {
	current, err := entity.ParseDay(c.Query("current"))
	if err != nil {
		return writeError(c, fmt.Errorf("%w: current: %v", domain.ErrInvalidInput, err))
	}
	previous, err := entity.ParseDay(c.Query("previous"))
	if err != nil {
		return writeError(c, fmt.Errorf("%w: previous: %v", domain.ErrInvalidInput, err))
	}
	if !previous.Before(current) {
		return writeError(c, fmt.Errorf("%w: previous debe ser anterior a current", domain.ErrInvalidInput))
	}

	rows, err := h.deltas.Get(c.UserContext(), c.Params("customer"), current, previous)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDeltaRows(c.Params("customer"), current, previous, rows))
}
