package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockdelta/internal/application/dto"
)

// TaskRunner tareas del pipeline que se pueden disparar por HTTP.
type TaskRunner interface {
	Snapshot(ctx context.Context, customerID string) (dto.TaskResponse, error)
	Pivot(ctx context.Context, customerID string) (dto.TaskResponse, error)
	Sales(ctx context.Context, customerID string) (dto.TaskResponse, error)
	Diff(ctx context.Context, customerID string) (dto.TaskResponse, error)
	Run(ctx context.Context, customerID string) ([]dto.TaskResponse, error)
	SyncStores(ctx context.Context, customerID string) (dto.StoresResponse, error)
}

// TaskHandler dispara las tareas diarias de un cliente.
type TaskHandler struct {
	runner TaskRunner
}

// NewTaskHandler construye el handler.
func NewTaskHandler(runner TaskRunner) *TaskHandler {
	return &TaskHandler{runner: runner}
}

func (h *TaskHandler) single(fn func(ctx context.Context, customerID string) (dto.TaskResponse, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Params("customer")
		if customerID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_CUSTOMER", Message: "customer es requerido"})
		}
		out, err := fn(c.UserContext(), customerID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}

// Snapshot godoc
// @Summary      Descargar el stock actual y guardar el snapshot del día
// @Tags         tasks
// @Produce      json
// @Param        customer  path  string  true  "id del cliente"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      504  {object}  dto.ErrorResponse
// @Router       /api/customers/{customer}/tasks/snapshot [post]
func (h *TaskHandler) Snapshot(c *fiber.Ctx) error { return h.single(h.runner.Snapshot)(c) }

// Pivot godoc
// @Summary      Construir el pivot artículo/talla por tienda del día actual
// @Tags         tasks
// @Produce      json
// @Param        customer  path  string  true  "id del cliente"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customers/{customer}/tasks/pivot [post]
func (h *TaskHandler) Pivot(c *fiber.Ctx) error { return h.single(h.runner.Pivot)(c) }

// Sales godoc
// @Summary      Agregar las ventas del día previo válido por tienda
// @Tags         tasks
// @Produce      json
// @Param        customer  path  string  true  "id del cliente"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customers/{customer}/tasks/sales [post]
func (h *TaskHandler) Sales(c *fiber.Ctx) error { return h.single(h.runner.Sales)(c) }

// Diff godoc
// @Summary      Calcular los cambios de stock entre los dos últimos días válidos
// @Tags         tasks
// @Produce      json
// @Param        customer  path  string  true  "id del cliente"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customers/{customer}/tasks/diff [post]
func (h *TaskHandler) Diff(c *fiber.Ctx) error { return h.single(h.runner.Diff)(c) }

// Run godoc
// @Summary      Ejecutar snapshot, pivot, ventas y diff en orden
// @Tags         tasks
// @Produce      json
// @Param        customer  path  string  true  "id del cliente"
// @Success      200  {object}  []dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/customers/{customer}/tasks/run [post]
// Si falla una tarea responde el error con el código que corresponda; el detalle
// de las tareas completadas queda en el log.
func (h *TaskHandler) Run(c *fiber.Ctx) error {
	out, err := h.runner.Run(c.UserContext(), c.Params("customer"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SyncStores godoc
// @Summary      Volcar el maestro completo de tiendas
// @Tags         stores
// @Produce      json
// @Param        customer  path  string  true  "id del cliente"
// @Success      201  {object}  dto.StoresResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customers/{customer}/stores/sync [post]
func (h *TaskHandler) SyncStores(c *fiber.Ctx) error {
	out, err := h.runner.SyncStores(c.UserContext(), c.Params("customer"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
