package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/jhoicas/stockdelta/internal/application/dto"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName string
	Tasks   TaskRunner
	Deltas  DeltaReader
	Metrics http.Handler // nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Name: deps.AppName})
	})
	if deps.Metrics != nil {
		metrics := fasthttpadaptor.NewFastHTTPHandler(deps.Metrics)
		app.Get("/metrics", func(c *fiber.Ctx) error {
			metrics(c.Context())
			return nil
		})
	}

	customer := app.Group("/api/customers/:customer")

	taskHandler := NewTaskHandler(deps.Tasks)
	tasks := customer.Group("/tasks")
	tasks.Post("/snapshot", taskHandler.Snapshot)
	tasks.Post("/pivot", taskHandler.Pivot)
	tasks.Post("/sales", taskHandler.Sales)
	tasks.Post("/diff", taskHandler.Diff)
	tasks.Post("/run", taskHandler.Run)
	customer.Post("/stores/sync", taskHandler.SyncStores)

	if deps.Deltas != nil {
		deltaHandler := NewDeltaHandler(deps.Deltas)
		customer.Get("/deltas", deltaHandler.Get)
	}
}
