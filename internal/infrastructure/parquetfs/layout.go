// Package parquetfs persiste los artefactos del pipeline como archivos parquet
// bajo una raíz de datos, particionados por cliente y día.
package parquetfs

import (
	"fmt"
	"path/filepath"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// Layout única fuente de rutas de artefactos. Ningún otro paquete arma rutas.
//
//	{root}/{customer}/last_20_executions_date.parquet
//	{root}/{customer}/activeStores_{customer}.parquet
//	{root}/{customer}/allStores_{customer}.parquet
//	{root}/{customer}/stocks/{YYYY}/{Month}/{DD}/{YYYYMMDD}.parquet
//	{root}/{customer}/stocks/{YYYY}/{Month}/{DD}/pivotArtStoresStock_{YYYYMMDD}.parquet
//	{root}/{customer}/stocks/{YYYY}/{Month}/{DD}/dailyStockChanges_{cur}_vs_{prev}.parquet
//	{root}/{customer}/articles/{YYYY}/{Month}/{DD}/article_{YYYYMMDD}.parquet
//	{root}/{customer}/articles/{YYYY}/{Month}/{DD}/number_of_articles.parquet
//	{root}/{customer}/sales/{YYYY}/{Month}/{DD}/custStoreId={id}/part-0.parquet
type Layout struct {
	root string
}

func NewLayout(root string) Layout {
	return Layout{root: root}
}

func (l Layout) Root() string { return l.root }

func (l Layout) customerDir(customerID string) string {
	return filepath.Join(l.root, customerID)
}

// dayDir {kind}/{YYYY}/{Month}/{DD}; el mes va con su nombre en inglés.
func (l Layout) dayDir(customerID, kind string, day entity.Day) string {
	return filepath.Join(
		l.customerDir(customerID),
		kind,
		fmt.Sprintf("%04d", day.Year),
		day.Month.String(),
		fmt.Sprintf("%02d", day.Day),
	)
}

func (l Layout) Ledger(customerID string) string {
	return filepath.Join(l.customerDir(customerID), "last_20_executions_date.parquet")
}

func (l Layout) ActiveStores(customerID string) string {
	return filepath.Join(l.customerDir(customerID), fmt.Sprintf("activeStores_%s.parquet", customerID))
}

func (l Layout) AllStores(customerID string) string {
	return filepath.Join(l.customerDir(customerID), fmt.Sprintf("allStores_%s.parquet", customerID))
}

// Snapshot ruta del snapshot completo del día.
func (l Layout) Snapshot(customerID string, day entity.Day) string {
	return filepath.Join(l.dayDir(customerID, "stocks", day), day.Compact()+".parquet")
}

// IncompleteSnapshot filas de una descarga que no convergió; la resolución de fechas la ignora.
func (l Layout) IncompleteSnapshot(customerID string, day entity.Day) string {
	return filepath.Join(l.dayDir(customerID, "stocks", day), day.Compact()+".incomplete.parquet")
}

func (l Layout) Pivot(customerID string, day entity.Day) string {
	return filepath.Join(l.dayDir(customerID, "stocks", day), "pivotArtStoresStock_"+day.Compact()+".parquet")
}

// Delta vive en la carpeta del día actual.
func (l Layout) Delta(customerID string, current, previous entity.Day) string {
	name := fmt.Sprintf("dailyStockChanges_%s_vs_%s.parquet", current.Compact(), previous.Compact())
	return filepath.Join(l.dayDir(customerID, "stocks", current), name)
}

func (l Layout) ArticleCatalog(customerID string, day entity.Day) string {
	return filepath.Join(l.dayDir(customerID, "articles", day), "article_"+day.Compact()+".parquet")
}

func (l Layout) ArticleCount(customerID string, day entity.Day) string {
	return filepath.Join(l.dayDir(customerID, "articles", day), "number_of_articles.parquet")
}

// SalesDir raíz del dataset particionado por tienda.
func (l Layout) SalesDir(customerID string, day entity.Day) string {
	return l.dayDir(customerID, "sales", day)
}

func (l Layout) SalesPartition(dir string, storeID int32) string {
	return filepath.Join(dir, fmt.Sprintf("custStoreId=%d", storeID), "part-0.parquet")
}
