package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdelta/internal/application/ledger"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

type fixedDates ledger.Resolution

func (f fixedDates) ResolveLastTwoValidDates(context.Context, string) (ledger.Resolution, error) {
	return ledger.Resolution(f), nil
}

type salesSource struct {
	lines     []entity.TransactionSale
	requested entity.Day
}

func (s *salesSource) ListArticles(context.Context, string) ([]entity.Article, error) { return nil, nil }
func (s *salesSource) ListStores(context.Context, string) ([]entity.Store, error)     { return nil, nil }
func (s *salesSource) ListTransactionSales(_ context.Context, _ string, day entity.Day) ([]entity.TransactionSale, error) {
	s.requested = day
	return s.lines, nil
}

type salesSink struct {
	saved []entity.DailySale
	calls int
}

func (s *salesSink) Save(_ context.Context, _ string, day entity.Day, sales []entity.DailySale) (string, error) {
	s.saved = sales
	s.calls++
	return "sales/" + day.Compact(), nil
}

func line(store, article int32, size, qty int16) entity.TransactionSale {
	return entity.TransactionSale{CustomerID: "22001", StoreID: store, ArticleID: article, SizeID: size, Quantity: qty, BookingDate: 20240304}
}

func TestAggregateDailySales(t *testing.T) {
	got := AggregateDailySales([]entity.TransactionSale{
		line(1, 10, 40, 2),
		line(1, 10, 40, 1),
		line(1, 10, 40, -1),
		line(2, 11, 38, 1),
		line(2, 12, 38, 0),
	})

	assert.Equal(t, []entity.DailySale{
		{StoreID: 2, ArticleID: 11, SizeID: 38, BookingDate: 20240304, NumDailySales: 1},
		{StoreID: 1, ArticleID: 10, SizeID: 40, BookingDate: 20240304, NumDailySales: 3},
	}, got)
}

func TestAggregateDailySales_NoPositiveLines(t *testing.T) {
	got := AggregateDailySales([]entity.TransactionSale{line(1, 10, 40, -2)})
	assert.Empty(t, got)
}

func TestProduceDailySales_UsesPreviousDate(t *testing.T) {
	prev := entity.Day{Year: 2024, Month: time.March, Day: 4}
	src := &salesSource{lines: []entity.TransactionSale{line(1, 10, 40, 2)}}
	sink := &salesSink{}
	dates := fixedDates{Current: entity.Day{Year: 2024, Month: time.March, Day: 5}, Previous: prev, HasPrevious: true}

	out, err := NewSalesUseCase(dates, src, sink, nil, logger.Nop()).ProduceDailySales(context.Background(), "22001")
	require.NoError(t, err)
	assert.Equal(t, prev, src.requested)
	assert.Equal(t, prev, out.Day)
	assert.Equal(t, "sales/20240304", out.Dir)
	assert.Equal(t, 1, out.Rows)
	assert.False(t, out.Skipped)
}

func TestProduceDailySales_SkipsWithoutPreviousDate(t *testing.T) {
	sink := &salesSink{}
	dates := fixedDates{Current: entity.Day{Year: 2024, Month: time.March, Day: 5}}

	out, err := NewSalesUseCase(dates, &salesSource{}, sink, nil, logger.Nop()).ProduceDailySales(context.Background(), "22001")
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.Zero(t, sink.calls)
}
