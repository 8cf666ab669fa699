// Package analytics contiene los casos de uso de agregados de ventas que
// acompañan al pipeline de stock.
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stockdelta/internal/application/ledger"
	"github.com/jhoicas/stockdelta/internal/application/ports"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// DateResolver ver ledger.UseCase.
type DateResolver interface {
	ResolveLastTwoValidDates(ctx context.Context, customerID string) (ledger.Resolution, error)
}

// SalesOutcome resultado del agregado diario de ventas.
type SalesOutcome struct {
	Day     entity.Day
	Dir     string
	Rows    int
	Skipped bool
}

// SalesAggregateProducer capacidad "produce el agregado diario de ventas".
type SalesAggregateProducer interface {
	ProduceDailySales(ctx context.Context, customerID string) (SalesOutcome, error)
}

// SalesUseCase agrega las ventas del último día completo (el día previo válido
// del registro de ejecuciones) por tienda, artículo y talla.
type SalesUseCase struct {
	dates   DateResolver
	master  repository.MasterDataRepository
	sales   repository.SalesRepository
	metrics ports.PipelineMetrics
	log     *logger.Logger
}

var _ SalesAggregateProducer = (*SalesUseCase)(nil)

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(
	dates DateResolver,
	master repository.MasterDataRepository,
	sales repository.SalesRepository,
	metrics ports.PipelineMetrics,
	log *logger.Logger,
) *SalesUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &SalesUseCase{dates: dates, master: master, sales: sales, metrics: metrics, log: log}
}

// ProduceDailySales sin día previo no hay nada que agregar: devuelve Skipped sin error.
func (uc *SalesUseCase) ProduceDailySales(ctx context.Context, customerID string) (SalesOutcome, error) {
	res, err := uc.dates.ResolveLastTwoValidDates(ctx, customerID)
	if err != nil {
		return SalesOutcome{}, fmt.Errorf("resolver fechas: %w", err)
	}
	if !res.HasPrevious {
		logger.FromContext(ctx, uc.log).Info().Str("customer", customerID).Str("current", res.Current.String()).Msg("sin día previo válido, ventas diarias omitidas")
		return SalesOutcome{Skipped: true}, nil
	}
	out := SalesOutcome{Day: res.Previous}

	lines, err := uc.master.ListTransactionSales(ctx, customerID, res.Previous)
	if err != nil {
		return out, fmt.Errorf("consultar ventas de %s: %w", res.Previous, err)
	}
	daily := AggregateDailySales(lines)

	dir, err := uc.sales.Save(ctx, customerID, res.Previous, daily)
	if err != nil {
		return out, fmt.Errorf("guardar ventas diarias: %w", err)
	}
	out.Dir, out.Rows = dir, len(daily)
	uc.metrics.ArtifactWritten("sales", len(daily))
	logger.FromContext(ctx, uc.log).Info().
		Str("path", dir).
		Int("lines", len(lines)).
		Int("rows", len(daily)).
		Msg("ventas diarias guardadas")
	return out, nil
}

type saleKey struct {
	store   int32
	article int32
	size    int16
	booking int32
}

// AggregateDailySales suma las cantidades positivas por (tienda, artículo, talla,
// fecha). Devoluciones y líneas a cero no cuentan. Orden ascendente por total y,
// a igualdad, por clave.
func AggregateDailySales(lines []entity.TransactionSale) []entity.DailySale {
	totals := make(map[saleKey]int64)
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		totals[saleKey{l.StoreID, l.ArticleID, l.SizeID, l.BookingDate}] += int64(l.Quantity)
	}

	out := make([]entity.DailySale, 0, len(totals))
	for k, n := range totals {
		out = append(out, entity.DailySale{
			StoreID:       k.store,
			ArticleID:     k.article,
			SizeID:        k.size,
			BookingDate:   k.booking,
			NumDailySales: n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.NumDailySales != b.NumDailySales {
			return a.NumDailySales < b.NumDailySales
		}
		if a.StoreID != b.StoreID {
			return a.StoreID < b.StoreID
		}
		if a.ArticleID != b.ArticleID {
			return a.ArticleID < b.ArticleID
		}
		if a.SizeID != b.SizeID {
			return a.SizeID < b.SizeID
		}
		return a.BookingDate < b.BookingDate
	})
	return out
}
