package entity

import "time"

// DeltaRow cambio de stock detectado entre dos días para artículo/tienda/talla,
// con la matriz de tiendas de cada día.
type DeltaRow struct {
	ArticleID          int64
	StoreID            string
	Size               int32
	SizeIndex          int32
	PreviousAmount     int8
	PreviousAmountDate time.Time
	CurrentAmount      int8
	CurrentAmountDate  time.Time
	PreviousStores     []StoreAmount
	CurrentStores      []StoreAmount
}
