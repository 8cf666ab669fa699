package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/pkg/logger"
	"github.com/jhoicas/stockdelta/pkg/workpool"
)

// errDuplicateStoreAmount dos filas del snapshot para el mismo artículo/talla/tienda.
var errDuplicateStoreAmount = errors.New("cantidad duplicada para artículo/talla/tienda")

type articleSize struct {
	article int64
	size    int32
}

type articlePivot struct {
	article int64
	bySize  map[int32][]entity.StoreAmount
	err     error // errDuplicateStoreAmount: el artículo se omite
}

// PivotBuilder convierte un snapshot largo (artículo, tienda, talla, cantidad) en
// una matriz artículo/talla × tienda y la une de vuelta a las filas del snapshot.
type PivotBuilder struct {
	workers int
	log     *logger.Logger
}

// NewPivotBuilder workers < 1 usa el paralelismo del proceso.
func NewPivotBuilder(workers int, log *logger.Logger) *PivotBuilder {
	if workers < 1 {
		workers = workpool.DefaultSize()
	}
	return &PivotBuilder{workers: workers, log: log}
}

// Build es función pura del snapshot: mismo snapshot, mismas filas y mismo orden
// (artículo, tienda, talla, índice de talla). Cantidades fuera del rango int8
// devuelven *domain.AmountOutOfRangeError.
func (b *PivotBuilder) Build(ctx context.Context, snapshot entity.Snapshot) ([]entity.PivotRow, error) {
	byArticle := make(map[int64][]entity.StockRow)
	for _, r := range snapshot.Rows {
		byArticle[r.ArticleID] = append(byArticle[r.ArticleID], r)
	}
	articles := make([]int64, 0, len(byArticle))
	for id := range byArticle {
		articles = append(articles, id)
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i] < articles[j] })

	chunks := nonEmpty(workpool.Split(articles, b.workers))
	results, err := workpool.Run(ctx, b.workers, chunks, func(_ context.Context, chunk []int64) ([]articlePivot, error) {
		out := make([]articlePivot, 0, len(chunk))
		for _, id := range chunk {
			p, err := pivotArticle(id, byArticle[id])
			if err != nil && !errors.Is(err, errDuplicateStoreAmount) {
				return nil, err
			}
			p.err = err
			out = append(out, p)
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("pivot por artículo: %w", err)
	}

	matrix := make(map[articleSize][]entity.StoreAmount)
	for _, chunk := range results {
		for _, p := range chunk {
			if p.err != nil {
				logger.FromContext(ctx, b.log).Warn().Err(p.err).Int64("article", p.article).Msg("artículo omitido del pivot")
				continue
			}
			for size, stores := range p.bySize {
				matrix[articleSize{p.article, size}] = stores
			}
		}
	}

	rows := make([]entity.PivotRow, 0, len(snapshot.Rows))
	for _, r := range snapshot.Rows {
		amount, err := toInt8(r.ArticleID, r.StoreID, r.Size, int64(r.Amount))
		if err != nil {
			return nil, err
		}
		rows = append(rows, entity.PivotRow{
			ArticleID:         r.ArticleID,
			StoreID:           r.StoreID,
			Size:              r.Size,
			SizeIndex:         r.SizeIndex,
			CurrentAmount:     amount,
			CurrentAmountDate: r.SnapshotAt,
			Stores:            matrix[articleSize{r.ArticleID, r.Size}],
		})
	}
	sortPivotRows(rows)
	return rows, nil
}

// pivotArticle una fila por talla con una columna por tienda vista para el artículo.
func pivotArticle(article int64, rows []entity.StockRow) (articlePivot, error) {
	p := articlePivot{article: article, bySize: make(map[int32][]entity.StoreAmount)}
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		k := fmt.Sprintf("%d/%s", r.Size, r.StoreID)
		if _, dup := seen[k]; dup {
			return p, fmt.Errorf("%w: artículo %d talla %d tienda %s", errDuplicateStoreAmount, article, r.Size, r.StoreID)
		}
		seen[k] = struct{}{}
		amount, err := toInt8(article, r.StoreID, r.Size, int64(r.Amount))
		if err != nil {
			return p, err
		}
		p.bySize[r.Size] = append(p.bySize[r.Size], entity.StoreAmount{StoreID: r.StoreID, Amount: amount})
	}
	for _, stores := range p.bySize {
		sort.Slice(stores, func(i, j int) bool { return stores[i].StoreID < stores[j].StoreID })
	}
	return p, nil
}

func toInt8(article int64, store string, size int32, v int64) (int8, error) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, &domain.AmountOutOfRangeError{ArticleID: article, Store: store, Size: size, Value: v}
	}
	return int8(v), nil
}

func sortPivotRows(rows []entity.PivotRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ArticleID != b.ArticleID {
			return a.ArticleID < b.ArticleID
		}
		if a.StoreID != b.StoreID {
			return a.StoreID < b.StoreID
		}
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		return a.SizeIndex < b.SizeIndex
	})
}
