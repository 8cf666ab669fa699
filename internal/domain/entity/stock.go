package entity

import "time"

// StockRow stock de un artículo/talla en una tienda, tal como llega de la API.
type StockRow struct {
	ArticleID  int64
	StoreID    string // sucursal ("branch") en la API
	Size       int32
	SizeIndex  int32
	Amount     int32
	SnapshotAt time.Time
}

// Snapshot captura diaria completa de un cliente. El orden de Rows no es significativo.
type Snapshot struct {
	CustomerID string
	Day        Day
	TakenAt    time.Time
	Rows       []StockRow
	Incomplete bool
}

// ArticleIDs artículos distintos del snapshot, en orden de primera aparición.
func (s Snapshot) ArticleIDs() []int64 {
	seen := make(map[int64]struct{}, len(s.Rows))
	ids := make([]int64, 0)
	for _, r := range s.Rows {
		if _, ok := seen[r.ArticleID]; ok {
			continue
		}
		seen[r.ArticleID] = struct{}{}
		ids = append(ids, r.ArticleID)
	}
	return ids
}
