package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

var takenAt = time.Date(2024, 3, 5, 6, 30, 0, 0, time.UTC)

func stockRow(article int64, store string, size, idx, amount int32) entity.StockRow {
	return entity.StockRow{ArticleID: article, StoreID: store, Size: size, SizeIndex: idx, Amount: amount, SnapshotAt: takenAt}
}

func snapshotOf(rows ...entity.StockRow) entity.Snapshot {
	return entity.Snapshot{CustomerID: "22001", Day: entity.DayOf(takenAt), TakenAt: takenAt, Rows: rows}
}

func TestBuild_JoinsStoreMatrixOntoSnapshotRows(t *testing.T) {
	snap := snapshotOf(
		stockRow(7, "3", 40, 2, 1),
		stockRow(7, "1", 40, 2, 4),
		stockRow(7, "1", 42, 3, 0),
	)

	rows, err := NewPivotBuilder(2, logger.Nop()).Build(context.Background(), snap)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "1", rows[0].StoreID)
	assert.Equal(t, int32(40), rows[0].Size)
	assert.Equal(t, int8(4), rows[0].CurrentAmount)
	assert.Equal(t, takenAt, rows[0].CurrentAmountDate)
	assert.Equal(t, []entity.StoreAmount{{StoreID: "1", Amount: 4}, {StoreID: "3", Amount: 1}}, rows[0].Stores)

	assert.Equal(t, int32(42), rows[1].Size)
	assert.Equal(t, []entity.StoreAmount{{StoreID: "1", Amount: 0}}, rows[1].Stores)

	assert.Equal(t, "3", rows[2].StoreID)
	amount, ok := rows[2].Amount("1")
	assert.True(t, ok)
	assert.Equal(t, int8(4), amount)
}

func TestBuild_IsDeterministic(t *testing.T) {
	var in []entity.StockRow
	for a := int64(1); a <= 30; a++ {
		for _, store := range []string{"5", "1", "3"} {
			in = append(in, stockRow(a, store, 38, 1, int32(a%5)))
		}
	}
	b := NewPivotBuilder(4, logger.Nop())

	first, err := b.Build(context.Background(), snapshotOf(in...))
	require.NoError(t, err)

	// mismo contenido en otro orden
	reversed := make([]entity.StockRow, len(in))
	for i := range in {
		reversed[len(in)-1-i] = in[i]
	}
	second, err := b.Build(context.Background(), snapshotOf(reversed...))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 90)
}

func TestBuild_AmountOutOfRange(t *testing.T) {
	snap := snapshotOf(stockRow(7, "1", 40, 2, 200))

	_, err := NewPivotBuilder(1, logger.Nop()).Build(context.Background(), snap)
	require.ErrorIs(t, err, domain.ErrAmountOutOfRange)

	var oor *domain.AmountOutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, int64(200), oor.Value)
	assert.Equal(t, int64(7), oor.ArticleID)
}

func TestBuild_NegativeAmountsWithinRangeAreKept(t *testing.T) {
	rows, err := NewPivotBuilder(1, logger.Nop()).Build(context.Background(), snapshotOf(stockRow(7, "1", 40, 2, -128)))
	require.NoError(t, err)
	assert.Equal(t, int8(-128), rows[0].CurrentAmount)
}

func TestBuild_DuplicateStoreSkipsOnlyThatArticle(t *testing.T) {
	snap := snapshotOf(
		stockRow(7, "1", 40, 2, 1),
		stockRow(7, "1", 40, 2, 2),
		stockRow(8, "1", 40, 2, 3),
	)

	rows, err := NewPivotBuilder(2, logger.Nop()).Build(context.Background(), snap)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Nil(t, rows[0].Stores)
	assert.Nil(t, rows[1].Stores)
	assert.Equal(t, []entity.StoreAmount{{StoreID: "1", Amount: 3}}, rows[2].Stores)
}

func TestBuild_EmptySnapshot(t *testing.T) {
	rows, err := NewPivotBuilder(3, logger.Nop()).Build(context.Background(), snapshotOf())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
