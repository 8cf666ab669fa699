package entity

// TransactionSale línea de venta del sistema fuente.
type TransactionSale struct {
	CustomerID  string
	StoreID     int32
	ArticleID   int32
	SizeID      int16
	Quantity    int16
	BookingDate int32 // YYYYMMDD
}

// DailySale ventas agregadas por tienda/artículo/talla en un día.
type DailySale struct {
	StoreID       int32
	ArticleID     int32
	SizeID        int16
	BookingDate   int32
	NumDailySales int64
}
