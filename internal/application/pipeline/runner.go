// Package pipeline orquesta las tareas diarias (snapshot, pivot, ventas, diff) con
// identificador de ejecución, logging y métricas comunes a HTTP y CLI.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockdelta/internal/application/analytics"
	"github.com/jhoicas/stockdelta/internal/application/dto"
	"github.com/jhoicas/stockdelta/internal/application/inventory"
	"github.com/jhoicas/stockdelta/internal/application/ports"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// Nombres de tarea (log, métricas y respuesta).
const (
	TaskSnapshot = "snapshot"
	TaskPivot    = "pivot"
	TaskSales    = "sales"
	TaskDiff     = "diff"
	TaskStores   = "stores"
)

// SnapshotProducer ingesta del stock actual.
type SnapshotProducer interface {
	FetchAndPersist(ctx context.Context, customerID string) (inventory.SnapshotOutcome, error)
}

// DiffProducer comparación del día actual con el previo válido.
type DiffProducer interface {
	ComputeAndPersist(ctx context.Context, customerID string) (inventory.DiffOutcome, error)
}

// StoreSyncer volcado del maestro completo de tiendas.
type StoreSyncer interface {
	SyncAllStores(ctx context.Context, customerID string) (string, int, error)
}

// Deps casos de uso que orquesta el Runner.
type Deps struct {
	Snapshot SnapshotProducer
	Pivot    inventory.StockPivotProducer
	Sales    analytics.SalesAggregateProducer
	Diff     DiffProducer
	Stores   StoreSyncer
	Metrics  ports.PipelineMetrics

	// SnapshotDeadline límite de la ingesta; al vencer se guarda el snapshot
	// incompleto. 0 = sin límite.
	SnapshotDeadline time.Duration
}

// Runner ejecuta cada tarea con un run_id propio y registra su resultado.
// Las tareas de un mismo cliente se serializan: el registro de ejecuciones no
// admite escritores concurrentes.
type Runner struct {
	deps  Deps
	log   *logger.Logger
	newID func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRunner construye el orquestador.
func NewRunner(deps Deps, log *logger.Logger) *Runner {
	if deps.Metrics == nil {
		deps.Metrics = ports.NopMetrics{}
	}
	return &Runner{deps: deps, log: log, newID: uuid.NewString, locks: map[string]*sync.Mutex{}}
}

func (r *Runner) lock(customerID string) func() {
	r.mu.Lock()
	l, ok := r.locks[customerID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[customerID] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

type taskFunc func(ctx context.Context, customerID string) (dto.TaskResponse, error)

func (r *Runner) exec(ctx context.Context, runID, task, customerID string, fn taskFunc) (dto.TaskResponse, error) {
	log := r.log.Child(r.log.With().Str("run_id", runID).Str("task", task).Str("customer", customerID))
	log.Info().Msg("tarea iniciada")
	ctx = logger.WithContext(ctx, log)

	start := time.Now()
	resp, err := fn(ctx, customerID)
	elapsed := time.Since(start)

	resp.RunID, resp.Task, resp.CustomerID, resp.Elapsed = runID, task, customerID, elapsed
	r.deps.Metrics.TaskFinished(task, err, elapsed)

	if err != nil {
		if resp.Status == "" {
			resp.Status = dto.StatusFailed
		}
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("tarea fallida")
		return resp, err
	}
	log.Info().
		Str("status", resp.Status).
		Str("path", resp.Path).
		Int("rows", resp.Rows).
		Dur("elapsed", elapsed).
		Msg("tarea terminada")
	return resp, nil
}

func (r *Runner) snapshot(ctx context.Context, customerID string) (dto.TaskResponse, error) {
	if r.deps.SnapshotDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.deps.SnapshotDeadline)
		defer cancel()
	}
	out, err := r.deps.Snapshot.FetchAndPersist(ctx, customerID)
	resp := dto.FromSnapshot(out)
	if err != nil && !out.Incomplete {
		resp.Status = dto.StatusFailed
	}
	return resp, err
}

func (r *Runner) pivot(ctx context.Context, customerID string) (dto.TaskResponse, error) {
	out, err := r.deps.Pivot.ProduceDailyPivot(ctx, customerID)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	return dto.FromPivot(out), nil
}

func (r *Runner) sales(ctx context.Context, customerID string) (dto.TaskResponse, error) {
	out, err := r.deps.Sales.ProduceDailySales(ctx, customerID)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	return dto.FromSales(out), nil
}

func (r *Runner) diff(ctx context.Context, customerID string) (dto.TaskResponse, error) {
	out, err := r.deps.Diff.ComputeAndPersist(ctx, customerID)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	return dto.FromDiff(out), nil
}

// Snapshot descarga y persiste el stock actual.
func (r *Runner) Snapshot(ctx context.Context, customerID string) (dto.TaskResponse, error) {
	defer r.lock(customerID)()
	return r.exec(ctx, r.newID(), TaskSnapshot, customerID, r.snapshot)
}

// Pivot construye la tabla pivot del día actual.
func (r *Runner) Pivot(ctx context.Context, customerID string) (dto.TaskResponse, error) {
	defer r.lock(customerID)()
	return r.exec(ctx, r.newID(), TaskPivot, customerID, r.pivot)
}

// Sales agrega las ventas del día previo válido.
func (r *Runner) Sales(ctx context.Context, customerID string) (dto.TaskResponse, error) {
	defer r.lock(customerID)()
	return r.exec(ctx, r.newID(), TaskSales, customerID, r.sales)
}

// Diff compara el pivot actual con el del día previo válido.
func (r *Runner) Diff(ctx context.Context, customerID string) (dto.TaskResponse, error) {
	defer r.lock(customerID)()
	return r.exec(ctx, r.newID(), TaskDiff, customerID, r.diff)
}

// Run ejecuta el día completo con un único run_id: snapshot, luego pivot y ventas
// en paralelo, y el diff cuando el pivot está escrito. Un snapshot incompleto
// detiene la cadena.
func (r *Runner) Run(ctx context.Context, customerID string) ([]dto.TaskResponse, error) {
	defer r.lock(customerID)()
	runID := r.newID()
	var out []dto.TaskResponse

	snap, err := r.exec(ctx, runID, TaskSnapshot, customerID, r.snapshot)
	out = append(out, snap)
	if err != nil {
		return out, fmt.Errorf("snapshot: %w", err)
	}

	var pivotResp, salesResp, diffResp dto.TaskResponse
	var pivotDone bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pivotResp, err = r.exec(gctx, runID, TaskPivot, customerID, r.pivot)
		if err != nil {
			return fmt.Errorf("pivot: %w", err)
		}
		pivotDone = true
		diffResp, err = r.exec(gctx, runID, TaskDiff, customerID, r.diff)
		if err != nil {
			return fmt.Errorf("diff: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		salesResp, err = r.exec(gctx, runID, TaskSales, customerID, r.sales)
		if err != nil {
			return fmt.Errorf("sales: %w", err)
		}
		return nil
	})
	err = g.Wait()

	out = append(out, pivotResp, salesResp)
	if pivotDone {
		out = append(out, diffResp)
	}
	return out, err
}

// SyncStores vuelca el maestro completo de tiendas del cliente.
func (r *Runner) SyncStores(ctx context.Context, customerID string) (dto.StoresResponse, error) {
	defer r.lock(customerID)()
	runID := r.newID()
	log := r.log.Child(r.log.With().Str("run_id", runID).Str("task", TaskStores).Str("customer", customerID))
	ctx = logger.WithContext(ctx, log)

	start := time.Now()
	path, n, err := r.deps.Stores.SyncAllStores(ctx, customerID)
	r.deps.Metrics.TaskFinished(TaskStores, err, time.Since(start))
	if err != nil {
		log.Error().Err(err).Msg("sincronización de tiendas fallida")
		return dto.StoresResponse{}, err
	}
	log.Info().Str("path", path).Int("rows", n).Msg("maestro de tiendas guardado")
	return dto.StoresResponse{RunID: runID, CustomerID: customerID, Path: path, Rows: n}, nil
}
