package parquetfs

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// Esquemas en disco. Los nombres de columna son los que consumen los reportes aguas abajo.

type executionRow struct {
	CustomerID string    `parquet:"customerId"`
	Year       int32     `parquet:"year"`
	Month      string    `parquet:"month"`
	Day        int32     `parquet:"day"`
	ExecutedAt time.Time `parquet:"execution_timestamp,timestamp(millisecond)"`
}

type stockRow struct {
	ArticleID int64     `parquet:"articleId"`
	Branch    string    `parquet:"branch"`
	Size      int32     `parquet:"size"`
	SizeIndex int32     `parquet:"sizeIndex"`
	Amount    int32     `parquet:"amount"`
	CreDate   time.Time `parquet:"creDate,timestamp(millisecond)"`
}

// Las columnas INT8/INT16 se declaran int32 con tipo lógico: parquet-go no
// mapea int8 ni int16 de Go. El rango se valida en toInt16Column y en el pivot.

type storeAmountRow struct {
	Branch string `parquet:"branch"`
	Amount int32  `parquet:"amount,int(8)"`
}

type pivotRow struct {
	ArticleID         int64            `parquet:"articleId"`
	Branch            string           `parquet:"branch"`
	Size              int32            `parquet:"size,int(16)"`
	SizeIndex         int32            `parquet:"sizeIndex,int(16)"`
	CurrentAmount     int32            `parquet:"current_amount,int(8)"`
	CurrentAmountDate time.Time        `parquet:"current_amount_date,timestamp(millisecond)"`
	Stores            []storeAmountRow `parquet:"stores"`
}

type deltaRow struct {
	ArticleID      int64            `parquet:"articleId"`
	Branch         string           `parquet:"branch"`
	Size           int32            `parquet:"size,int(16)"`
	SizeIndex      int32            `parquet:"sizeIndex,int(16)"`
	CurrAmount     int32            `parquet:"curr_amount,int(8)"`
	CurrAmountDate time.Time        `parquet:"curr_amount_date,timestamp(millisecond)"`
	PreAmount      int32            `parquet:"pre_amount,int(8)"`
	PreAmountDate  time.Time        `parquet:"pre_amount_date,timestamp(millisecond)"`
	CurrStores     []storeAmountRow `parquet:"curr_stock_stores"`
	PreStores      []storeAmountRow `parquet:"pre_stock_stores"`
}

type storeRow struct {
	CustomerID  string `parquet:"customerId"`
	CustStoreID string `parquet:"custStoreId"`
	StoreNumber string `parquet:"storeNumber"`
}

// dailySaleRow sin custStoreId: la tienda va en el nombre de la partición.
type dailySaleRow struct {
	CustArtID     int32 `parquet:"custArtId"`
	CustSizeID    int32 `parquet:"custSizeId,int(16)"`
	BookingDate   int32 `parquet:"bookingDate"`
	NumDailySales int64 `parquet:"num_daily_sales"`
}

type articleRow struct {
	CustomerID int32 `parquet:"customerId"`
	CustArtID  int32 `parquet:"custArtId"`
}

type articleCountRow struct {
	FetchedArticles int64     `parquet:"fetched_articles"`
	FetchedDate     time.Time `parquet:"fetched_date,timestamp(millisecond)"`
}

func toStoreAmountRows(in []entity.StoreAmount) []storeAmountRow {
	if in == nil {
		return nil
	}
	out := make([]storeAmountRow, len(in))
	for i, s := range in {
		out[i] = storeAmountRow{Branch: s.StoreID, Amount: int32(s.Amount)}
	}
	return out
}

func fromStoreAmountRows(in []storeAmountRow) []entity.StoreAmount {
	if len(in) == 0 {
		return nil
	}
	out := make([]entity.StoreAmount, len(in))
	for i, s := range in {
		out[i] = entity.StoreAmount{StoreID: s.Branch, Amount: int8(s.Amount)}
	}
	return out
}

// toInt16Column valida que una talla quepa en la columna INT16.
func toInt16Column(column string, article int64, v int32) (int32, error) {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, fmt.Errorf("%w: artículo %d: %s %d fuera de rango int16", domain.ErrInvalidInput, article, column, v)
	}
	return v, nil
}

func monthByName(name string) time.Month {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m
		}
	}
	return 0
}
