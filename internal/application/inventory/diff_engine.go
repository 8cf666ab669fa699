package inventory

import (
	"sort"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

type stockKey struct {
	article   int64
	store     string
	size      int32
	sizeIndex int32
}

func keyOf(r entity.PivotRow) stockKey {
	return stockKey{r.ArticleID, r.StoreID, r.Size, r.SizeIndex}
}

// ComputeDiff filas cuyo stock cambió entre previous y current. Solo cuentan las
// tiendas de active; una clave nueva (sin fila previa) no es un cambio y las
// cantidades actuales negativas se descartan. Si previous tiene varias filas para
// la misma clave se emite una por cada una. Salida ordenada por clave.
func ComputeDiff(current, previous []entity.PivotRow, active map[string]struct{}) []entity.DeltaRow {
	prev := make(map[stockKey][]entity.PivotRow, len(previous))
	for _, r := range previous {
		if _, ok := active[r.StoreID]; !ok {
			continue
		}
		prev[keyOf(r)] = append(prev[keyOf(r)], r)
	}

	out := make([]entity.DeltaRow, 0)
	for _, cur := range current {
		if _, ok := active[cur.StoreID]; !ok {
			continue
		}
		if cur.CurrentAmount < 0 {
			continue
		}
		matches := prev[keyOf(cur)]
		if len(matches) == 0 || unchanged(cur, matches) {
			continue
		}
		for _, p := range matches {
			out = append(out, entity.DeltaRow{
				ArticleID:          cur.ArticleID,
				StoreID:            cur.StoreID,
				Size:               cur.Size,
				SizeIndex:          cur.SizeIndex,
				PreviousAmount:     p.CurrentAmount,
				PreviousAmountDate: p.CurrentAmountDate,
				CurrentAmount:      cur.CurrentAmount,
				CurrentAmountDate:  cur.CurrentAmountDate,
				PreviousStores:     p.Stores,
				CurrentStores:      cur.Stores,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
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
	return out
}

// unchanged antijoin por cantidad: alguna fila previa con la misma clave tiene la misma cantidad.
func unchanged(cur entity.PivotRow, previous []entity.PivotRow) bool {
	for _, p := range previous {
		if p.CurrentAmount == cur.CurrentAmount {
			return true
		}
	}
	return false
}
