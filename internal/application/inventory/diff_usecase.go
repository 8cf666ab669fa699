package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockdelta/internal/application/ports"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// DiffState etapa alcanzada por el cálculo de diferencias.
type DiffState string

const (
	DiffAwaitingDates       DiffState = "awaiting_dates"
	DiffLoadingPivots       DiffState = "loading_pivots"
	DiffJoining             DiffState = "joining"
	DiffFiltering           DiffState = "filtering"
	DiffPersisted           DiffState = "persisted"
	DiffSkippedNoComparison DiffState = "skipped_no_comparison"
)

// NoComparisonPath ruta devuelta cuando no hay fecha previa con la que comparar.
const NoComparisonPath = "No_path"

// DiffOutcome resultado del cálculo de diferencias.
type DiffOutcome struct {
	State    DiffState
	Current  entity.Day
	Previous entity.Day
	Path     string
	Rows     []entity.DeltaRow
}

// DiffUseCase compara el pivot del día actual con el del día previo válido.
type DiffUseCase struct {
	dates           DateResolver
	pivots          repository.PivotRepository
	deltas          repository.DeltaRepository
	stores          ActiveStoreProvider
	centerWarehouse string
	metrics         ports.PipelineMetrics
	log             *logger.Logger
}

// NewDiffUseCase centerWarehouse es el branch que nunca entra en la comparación.
func NewDiffUseCase(
	dates DateResolver,
	pivots repository.PivotRepository,
	deltas repository.DeltaRepository,
	stores ActiveStoreProvider,
	centerWarehouse string,
	metrics ports.PipelineMetrics,
	log *logger.Logger,
) *DiffUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &DiffUseCase{
		dates:           dates,
		pivots:          pivots,
		deltas:          deltas,
		stores:          stores,
		centerWarehouse: centerWarehouse,
		metrics:         metrics,
		log:             log,
	}
}

// ComputeAndPersist resuelve las fechas y, si hay día previo, escribe la tabla de
// cambios (aunque quede vacía). Sin día previo devuelve DiffSkippedNoComparison y
// NoComparisonPath sin error.
func (uc *DiffUseCase) ComputeAndPersist(ctx context.Context, customerID string) (DiffOutcome, error) {
	out := DiffOutcome{State: DiffAwaitingDates}
	res, err := uc.dates.ResolveLastTwoValidDates(ctx, customerID)
	if err != nil {
		return out, fmt.Errorf("resolver fechas: %w", err)
	}
	out.Current = res.Current
	if !res.HasPrevious {
		out.State, out.Path = DiffSkippedNoComparison, NoComparisonPath
		logger.FromContext(ctx, uc.log).Info().
			Str("customer", customerID).
			Str("current", res.Current.String()).
			Msg("no hay día previo válido con el que comparar, diff omitido")
		return out, nil
	}

	stores, err := uc.stores.ActiveStores(ctx, customerID)
	if err != nil {
		return out, fmt.Errorf("cargar tiendas activas: %w", err)
	}
	return uc.ComputeDiff(ctx, customerID, res.Current, res.Previous, stores)
}

// ComputeDiff compara dos días concretos y persiste el resultado.
func (uc *DiffUseCase) ComputeDiff(ctx context.Context, customerID string, current, previous entity.Day, stores entity.ActiveStoreSet) (DiffOutcome, error) {
	out := DiffOutcome{State: DiffLoadingPivots, Current: current, Previous: previous}

	curr, err := uc.pivots.Get(ctx, customerID, current)
	if err != nil {
		return out, fmt.Errorf("leer pivot %s: %w", current, err)
	}
	prev, err := uc.pivots.Get(ctx, customerID, previous)
	if err != nil {
		return out, fmt.Errorf("leer pivot %s: %w", previous, err)
	}
	logger.FromContext(ctx, uc.log).Info().
		Str("current", current.String()).
		Str("previous", previous.String()).
		Int("current_rows", len(curr)).
		Int("previous_rows", len(prev)).
		Msg("pivots cargados para diff")

	out.State = DiffJoining
	rows := ComputeDiff(curr, prev, stores.Except(uc.centerWarehouse))
	out.State = DiffFiltering

	path, err := uc.deltas.Save(ctx, customerID, current, previous, rows)
	if err != nil {
		return out, fmt.Errorf("guardar cambios de stock: %w", err)
	}
	out.State, out.Path, out.Rows = DiffPersisted, path, rows
	uc.metrics.ArtifactWritten("delta", len(rows))
	logger.FromContext(ctx, uc.log).Info().Str("path", path).Int("rows", len(rows)).Msg("cambios diarios de stock guardados")
	return out, nil
}
