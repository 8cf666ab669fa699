package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdelta/internal/application/inventory"
	"github.com/jhoicas/stockdelta/internal/application/ledger"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/infrastructure/parquetfs"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// Recorre snapshot, registro de ejecuciones, pivot y diff sobre parquet en disco.
func TestDailyPipeline_OnParquetFiles(t *testing.T) {
	ctx := context.Background()
	const customer = "22001"
	layout := parquetfs.NewLayout(t.TempDir())
	log := logger.Nop()

	snapshots := parquetfs.NewSnapshotRepo(layout)
	pivots := parquetfs.NewPivotRepo(layout)
	deltas := parquetfs.NewDeltaRepo(layout)
	dates := ledger.NewUseCase(parquetfs.NewLedgerRepo(layout), snapshots, time.UTC, log)
	pivotUC := inventory.NewPivotUseCase(dates, snapshots, pivots, inventory.NewPivotBuilder(2, log), nil, log)
	stores := inventory.NewStoreUseCase(parquetfs.NewStoreRepo(layout), nil, "105:5,106:6,100:0", log)
	diffUC := inventory.NewDiffUseCase(dates, pivots, deltas, stores, "0", nil, log)

	yesterday := time.Date(2024, 3, 4, 6, 0, 0, 0, time.UTC)
	today := time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC)
	stock := func(at time.Time, store5 int32) []entity.StockRow {
		return []entity.StockRow{
			{ArticleID: 1, StoreID: "5", Size: 40, SizeIndex: 1, Amount: store5, SnapshotAt: at},
			{ArticleID: 1, StoreID: "6", Size: 40, SizeIndex: 1, Amount: 4, SnapshotAt: at},
			{ArticleID: 1, StoreID: "0", Size: 40, SizeIndex: 1, Amount: store5 + 10, SnapshotAt: at},
		}
	}

	for _, step := range []struct {
		at     time.Time
		store5 int32
	}{{yesterday, 7}, {today, 3}} {
		_, err := snapshots.Save(ctx, entity.Snapshot{CustomerID: customer, Day: entity.DayOf(step.at), TakenAt: step.at, Rows: stock(step.at, step.store5)})
		require.NoError(t, err)
		_, err = dates.RecordExecution(ctx, customer, step.at)
		require.NoError(t, err)
		out, err := pivotUC.ProduceDailyPivot(ctx, customer)
		require.NoError(t, err)
		assert.Equal(t, entity.DayOf(step.at), out.Day)
		assert.Equal(t, 3, out.Rows)
	}

	out, err := diffUC.ComputeAndPersist(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, inventory.DiffPersisted, out.State)
	assert.Equal(t, entity.DayOf(today), out.Current)
	assert.Equal(t, entity.DayOf(yesterday), out.Previous)
	assert.Equal(t, layout.Delta(customer, out.Current, out.Previous), out.Path)

	got, err := deltas.Get(ctx, customer, out.Current, out.Previous)
	require.NoError(t, err)
	require.Len(t, got, 1, "solo cambia la tienda 5; el almacén central no se compara")
	d := got[0]
	assert.Equal(t, int64(1), d.ArticleID)
	assert.Equal(t, "5", d.StoreID)
	assert.Equal(t, int32(40), d.Size)
	assert.Equal(t, int8(7), d.PreviousAmount)
	assert.Equal(t, int8(3), d.CurrentAmount)
	assert.True(t, d.PreviousAmountDate.Equal(yesterday))
	assert.True(t, d.CurrentAmountDate.Equal(today))
	assert.Equal(t, []entity.StoreAmount{{StoreID: "0", Amount: 17}, {StoreID: "5", Amount: 7}, {StoreID: "6", Amount: 4}}, d.PreviousStores)
	assert.Equal(t, []entity.StoreAmount{{StoreID: "0", Amount: 13}, {StoreID: "5", Amount: 3}, {StoreID: "6", Amount: 4}}, d.CurrentStores)
}
