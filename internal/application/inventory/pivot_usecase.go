package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockdelta/internal/application/ports"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// PivotOutcome resultado de la construcción del pivot diario.
type PivotOutcome struct {
	Day  entity.Day
	Path string
	Rows int
}

// PivotUseCase construye el pivot del día actual a partir de su snapshot.
type PivotUseCase struct {
	dates     DateResolver
	snapshots repository.SnapshotRepository
	pivots    repository.PivotRepository
	builder   *PivotBuilder
	metrics   ports.PipelineMetrics
	log       *logger.Logger
}

var _ StockPivotProducer = (*PivotUseCase)(nil)

// NewPivotUseCase construye el caso de uso.
func NewPivotUseCase(
	dates DateResolver,
	snapshots repository.SnapshotRepository,
	pivots repository.PivotRepository,
	builder *PivotBuilder,
	metrics ports.PipelineMetrics,
	log *logger.Logger,
) *PivotUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &PivotUseCase{
		dates:     dates,
		snapshots: snapshots,
		pivots:    pivots,
		builder:   builder,
		metrics:   metrics,
		log:       log,
	}
}

// ProduceDailyPivot resuelve el día actual, lee su snapshot (domain.ErrMissingSnapshot
// si no existe) y escribe el pivot reemplazando el del mismo día.
func (uc *PivotUseCase) ProduceDailyPivot(ctx context.Context, customerID string) (PivotOutcome, error) {
	res, err := uc.dates.ResolveLastTwoValidDates(ctx, customerID)
	if err != nil {
		return PivotOutcome{}, fmt.Errorf("resolver fechas: %w", err)
	}
	out := PivotOutcome{Day: res.Current}

	snapshot, err := uc.snapshots.Get(ctx, customerID, res.Current)
	if err != nil {
		return out, fmt.Errorf("leer snapshot %s: %w", res.Current, err)
	}
	logger.FromContext(ctx, uc.log).Info().Str("day", res.Current.String()).Int("rows", len(snapshot.Rows)).Msg("snapshot cargado para pivot")

	rows, err := uc.builder.Build(ctx, snapshot)
	if err != nil {
		return out, fmt.Errorf("construir pivot: %w", err)
	}

	path, err := uc.pivots.Save(ctx, customerID, res.Current, rows)
	if err != nil {
		return out, fmt.Errorf("guardar pivot: %w", err)
	}
	out.Path, out.Rows = path, len(rows)
	uc.metrics.ArtifactWritten("pivot", len(rows))
	logger.FromContext(ctx, uc.log).Info().Str("path", path).Int("rows", len(rows)).Msg("pivot de stock guardado")
	return out, nil
}
