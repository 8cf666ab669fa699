package parquetfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
)

// SalesRepo ventas diarias en un dataset particionado estilo hive (custStoreId=N).
type SalesRepo struct {
	layout Layout
}

var _ repository.SalesRepository = (*SalesRepo)(nil)

func NewSalesRepo(layout Layout) *SalesRepo {
	return &SalesRepo{layout: layout}
}

// Save reemplaza el dataset completo del día. Las particiones se escriben en un
// directorio hermano y se intercambian al final.
func (r *SalesRepo) Save(_ context.Context, customerID string, day entity.Day, sales []entity.DailySale) (string, error) {
	dir := r.layout.SalesDir(customerID, day)
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio %s: %w", parent, err)
	}
	staging, err := os.MkdirTemp(parent, ".tmp-sales-*")
	if err != nil {
		return "", fmt.Errorf("crear directorio temporal: %w", err)
	}
	defer os.RemoveAll(staging)

	byStore := make(map[int32][]dailySaleRow)
	for _, s := range sales {
		byStore[s.StoreID] = append(byStore[s.StoreID], dailySaleRow{
			CustArtID:     s.ArticleID,
			CustSizeID:    int32(s.SizeID),
			BookingDate:   s.BookingDate,
			NumDailySales: s.NumDailySales,
		})
	}
	stores := make([]int32, 0, len(byStore))
	for id := range byStore {
		stores = append(stores, id)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i] < stores[j] })

	for _, id := range stores {
		if err := writeFile(r.layout.SalesPartition(staging, id), byStore[id]); err != nil {
			return "", err
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("eliminar dataset anterior %s: %w", dir, err)
	}
	if err := os.Rename(staging, dir); err != nil {
		return "", fmt.Errorf("publicar dataset %s: %w", dir, err)
	}
	return dir, nil
}

// Partition lee las ventas de una tienda.
func (r *SalesRepo) Partition(customerID string, day entity.Day, storeID int32) ([]entity.DailySale, error) {
	rows, err := readFile[dailySaleRow](r.layout.SalesPartition(r.layout.SalesDir(customerID, day), storeID))
	if err != nil {
		return nil, err
	}
	out := make([]entity.DailySale, len(rows))
	for i, row := range rows {
		out[i] = entity.DailySale{
			StoreID:       storeID,
			ArticleID:     row.CustArtID,
			SizeID:        int16(row.CustSizeID),
			BookingDate:   row.BookingDate,
			NumDailySales: row.NumDailySales,
		}
	}
	return out, nil
}
