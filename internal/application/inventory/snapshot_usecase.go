package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockdelta/internal/application/ports"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// SnapshotOutcome resultado de una ingesta diaria.
type SnapshotOutcome struct {
	Day        entity.Day
	Path       string
	Articles   int
	Rows       int
	Dropped    []int64
	Pending    []int64
	Rounds     int
	Incomplete bool
}

// SnapshotUseCase descarga el stock de todos los artículos del cliente desde la
// API y lo persiste como snapshot del día, registrando la ejecución.
type SnapshotUseCase struct {
	master    repository.MasterDataRepository
	articles  repository.ArticleRepository
	engine    *FetchEngine
	snapshots repository.SnapshotRepository
	recorder  ExecutionRecorder
	now       func() time.Time
	metrics   ports.PipelineMetrics
	log       *logger.Logger
}

// NewSnapshotUseCase construye el caso de uso. now debe devolver la hora en la zona del cliente.
func NewSnapshotUseCase(
	master repository.MasterDataRepository,
	articles repository.ArticleRepository,
	engine *FetchEngine,
	snapshots repository.SnapshotRepository,
	recorder ExecutionRecorder,
	now func() time.Time,
	metrics ports.PipelineMetrics,
	log *logger.Logger,
) *SnapshotUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &SnapshotUseCase{
		master:    master,
		articles:  articles,
		engine:    engine,
		snapshots: snapshots,
		recorder:  recorder,
		now:       now,
		metrics:   metrics,
		log:       log,
	}
}

// FetchAndPersist ejecuta la ingesta completa. Si la descarga no converge o se
// cancela, guarda las filas obtenidas como snapshot incompleto, no registra la
// ejecución y devuelve el error.
func (uc *SnapshotUseCase) FetchAndPersist(ctx context.Context, customerID string) (SnapshotOutcome, error) {
	// Precisión de segundos, como el timestamp de creación que guardaba el DAG.
	now := uc.now().Truncate(time.Second)
	day := entity.DayOf(now)
	out := SnapshotOutcome{Day: day}

	logger.FromContext(ctx, uc.log).Info().Str("customer", customerID).Str("day", day.String()).Msg("ingesta del stock actual iniciada")

	articles, err := uc.master.ListArticles(ctx, customerID)
	if err != nil {
		return out, fmt.Errorf("listar artículos: %w", err)
	}
	out.Articles = len(articles)
	if err := uc.saveCatalog(ctx, customerID, day, articles); err != nil {
		return out, err
	}

	ids := make([]int64, len(articles))
	for i, a := range articles {
		ids[i] = int64(a.ArticleID)
	}

	res, fetchErr := uc.engine.FetchAll(ctx, ids)
	out.Rows, out.Dropped, out.Pending, out.Rounds = len(res.Rows), res.Dropped, res.Pending, res.Rounds
	out.Incomplete = res.Incomplete || fetchErr != nil

	for i := range res.Rows {
		res.Rows[i].SnapshotAt = now
	}
	snapshot := entity.Snapshot{
		CustomerID: customerID,
		Day:        day,
		TakenAt:    now,
		Rows:       res.Rows,
		Incomplete: out.Incomplete,
	}

	// El snapshot parcial se guarda aunque el contexto esté cancelado.
	path, err := uc.snapshots.Save(context.WithoutCancel(ctx), snapshot)
	if err != nil {
		if fetchErr != nil {
			return out, fmt.Errorf("guardar snapshot incompleto: %w (descarga: %w)", err, fetchErr)
		}
		return out, fmt.Errorf("guardar snapshot: %w", err)
	}
	out.Path = path
	uc.metrics.ArtifactWritten("snapshot", len(res.Rows))

	if fetchErr != nil {
		logger.FromContext(ctx, uc.log).Warn().
			Err(fetchErr).
			Str("path", path).
			Int("rows", len(res.Rows)).
			Int("pending", len(res.Pending)).
			Msg("snapshot incompleto guardado; la ejecución no se registra")
		return out, fetchErr
	}
	logger.FromContext(ctx, uc.log).Info().Str("path", path).Int("rows", len(res.Rows)).Msg("snapshot de stock guardado")

	if _, err := uc.recorder.RecordExecution(ctx, customerID, now); err != nil {
		return out, fmt.Errorf("registrar ejecución: %w", err)
	}
	return out, nil
}

func (uc *SnapshotUseCase) saveCatalog(ctx context.Context, customerID string, day entity.Day, articles []entity.Article) error {
	path, err := uc.articles.SaveCatalog(ctx, customerID, day, articles)
	if err != nil {
		return fmt.Errorf("guardar catálogo de artículos: %w", err)
	}
	uc.metrics.ArtifactWritten("articles", len(articles))
	logger.FromContext(ctx, uc.log).Info().Str("path", path).Int("rows", len(articles)).Msg("artículos del maestro guardados")

	count := entity.ArticleCount{FetchedArticles: int64(len(articles)), FetchedDate: day.Time()}
	path, err = uc.articles.AppendCount(ctx, customerID, day, count)
	if err != nil {
		return fmt.Errorf("guardar conteo de artículos: %w", err)
	}
	logger.FromContext(ctx, uc.log).Info().Str("path", path).Int64("articles", count.FetchedArticles).Msg("conteo de artículos actualizado")
	return nil
}
