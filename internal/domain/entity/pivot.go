package entity

import "time"

// StoreAmount columna de una tienda en la matriz ancha del pivot.
type StoreAmount struct {
	StoreID string
	Amount  int8
}

// PivotRow fila del snapshot con la matriz artículo/talla × tienda adjunta.
// CurrentAmount es el stock de StoreID; Stores contiene todas las tiendas vistas
// para el artículo/talla, ordenadas por StoreID.
type PivotRow struct {
	ArticleID         int64
	StoreID           string
	Size              int32
	SizeIndex         int32
	CurrentAmount     int8
	CurrentAmountDate time.Time
	Stores            []StoreAmount
}

// Amount cantidad de una tienda concreta en la matriz; ok=false si la tienda no aparece.
func (p PivotRow) Amount(storeID string) (int8, bool) {
	for _, s := range p.Stores {
		if s.StoreID == storeID {
			return s.Amount, true
		}
	}
	return 0, false
}
