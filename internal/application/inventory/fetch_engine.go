package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/stockdelta/internal/application/ports"
	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/pkg/logger"
	"github.com/jhoicas/stockdelta/pkg/workpool"
)

// FetchConfig límites del motor de descarga.
type FetchConfig struct {
	Workers      int
	MaxRounds    int
	RetryBackoff time.Duration
}

// FetchResult filas descargadas en todas las rondas. Cada artículo pedido queda
// exactamente en uno de Fetched, Dropped o Pending (Pending solo si Incomplete).
type FetchResult struct {
	Rows       []entity.StockRow
	Fetched    []int64
	Dropped    []int64
	Pending    []int64
	Rounds     int
	Incomplete bool
}

// FetchEngine reparte artículos entre workers contra la API de stock y reintenta
// solo los fallidos, ronda a ronda, hasta converger o agotar MaxRounds.
type FetchEngine struct {
	api     ports.StockAPI
	cfg     FetchConfig
	metrics ports.PipelineMetrics
	log     *logger.Logger
}

// NewFetchEngine construye el motor. Workers < 1 usa el paralelismo del proceso.
func NewFetchEngine(api ports.StockAPI, cfg FetchConfig, metrics ports.PipelineMetrics, log *logger.Logger) *FetchEngine {
	if cfg.Workers < 1 {
		cfg.Workers = workpool.DefaultSize()
	}
	if cfg.MaxRounds < 1 {
		cfg.MaxRounds = 1
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &FetchEngine{api: api, cfg: cfg, metrics: metrics, log: log}
}

type chunkResult struct {
	rows    []entity.StockRow
	fetched []int64
	failed  []int64
	dropped []int64
	elapsed time.Duration
}

// FetchAll descarga el stock de todos los artículos. La primera ronda reparte los
// artículos en Workers trozos contiguos; las siguientes, un artículo por trabajo.
// Entre rondas hay barrera: la ronda r+1 no empieza hasta que termina la r.
func (e *FetchEngine) FetchAll(ctx context.Context, articleIDs []int64) (FetchResult, error) {
	var res FetchResult
	log := logger.FromContext(ctx, e.log)
	pending := uniqueIDs(articleIDs)

	for round := 1; len(pending) > 0; round++ {
		// Una cancelación durante la última ronda no es agotamiento.
		if err := ctx.Err(); err != nil && round > 1 {
			res.Pending, res.Incomplete = pending, true
			return res, fmt.Errorf("descarga cancelada tras la ronda %d: %w", res.Rounds, err)
		}
		if round > e.cfg.MaxRounds {
			res.Pending, res.Incomplete = pending, true
			return res, &domain.FetchExhaustedError{Rounds: res.Rounds, Pending: pending}
		}
		if round > 1 {
			if err := e.wait(ctx); err != nil {
				res.Pending, res.Incomplete = pending, true
				return res, fmt.Errorf("descarga cancelada antes de la ronda %d: %w", round, err)
			}
		}

		var chunks [][]int64
		if round == 1 {
			chunks = nonEmpty(workpool.Split(pending, e.cfg.Workers))
		} else {
			chunks = workpool.Singletons(pending)
		}

		start := time.Now()
		results, err := workpool.Run(ctx, e.cfg.Workers, chunks, e.fetchChunk)
		if err != nil {
			return res, fmt.Errorf("ronda %d: %w", round, err)
		}

		var next []int64
		times := make([]float64, 0, len(results))
		for _, r := range results {
			res.Rows = append(res.Rows, r.rows...)
			res.Fetched = append(res.Fetched, r.fetched...)
			res.Dropped = append(res.Dropped, r.dropped...)
			next = append(next, r.failed...)
			times = append(times, r.elapsed.Seconds())
		}
		res.Rounds = round
		e.metrics.FetchRound(round, len(pending), time.Since(start))
		log.Info().
			Int("round", round).
			Int("chunks", len(chunks)).
			Int("requested", len(pending)).
			Int("failed", len(next)).
			Floats64("chunk_seconds", times).
			Msg("ronda de descarga terminada")

		if len(next) > 0 {
			log.Warn().Int("round", round).Ints64("articles", next).Msg("artículos no descargados, se reintentan")
		}
		pending = next
	}

	log.Info().
		Int("rounds", res.Rounds).
		Int("fetched", len(res.Fetched)).
		Int("dropped", len(res.Dropped)).
		Int("rows", len(res.Rows)).
		Msg("todos los artículos procesados, sin reintentos pendientes")
	return res, nil
}

// fetchChunk descarga secuencialmente los artículos del trozo; un fallo no
// interrumpe el resto del trozo.
func (e *FetchEngine) fetchChunk(ctx context.Context, chunk []int64) (chunkResult, error) {
	start := time.Now()
	log := logger.FromContext(ctx, e.log)
	var out chunkResult
	for _, id := range chunk {
		rows, err := e.api.FetchArticleStock(ctx, id)
		if err == nil {
			out.rows = append(out.rows, rows...)
			out.fetched = append(out.fetched, id)
			e.metrics.FetchItem(ports.OutcomeFetched)
			continue
		}
		if Retryable(err) {
			out.failed = append(out.failed, id)
			e.metrics.FetchItem(ports.OutcomeRetried)
			log.Warn().Err(err).Int64("article", id).Msg("error al descargar artículo")
			continue
		}
		out.dropped = append(out.dropped, id)
		e.metrics.FetchItem(ports.OutcomeDropped)
		log.Error().Err(err).Int64("article", id).Msg("artículo descartado definitivamente")
	}
	out.elapsed = time.Since(start)
	log.Debug().Int("size", len(chunk)).Dur("elapsed", out.elapsed).Msg("trozo terminado")
	return out, nil
}

// Retryable política única de clasificación de fallos por artículo: solo los
// errores que la API marca como definitivos descartan el artículo; cualquier
// otro fallo, de transporte o no, se reintenta en la siguiente ronda.
func Retryable(err error) bool {
	var te *domain.TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return !errors.Is(err, domain.ErrArticleNotFound)
}

func (e *FetchEngine) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.cfg.RetryBackoff <= 0 {
		return nil
	}
	t := time.NewTimer(e.cfg.RetryBackoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nonEmpty(chunks [][]int64) [][]int64 {
	out := chunks[:0]
	for _, c := range chunks {
		if len(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}
