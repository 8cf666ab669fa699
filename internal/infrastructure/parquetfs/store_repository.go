package parquetfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
)

// StoreRepo archivos de referencia de tiendas.
type StoreRepo struct {
	layout Layout
}

var _ repository.StoreRepository = (*StoreRepo)(nil)

func NewStoreRepo(layout Layout) *StoreRepo {
	return &StoreRepo{layout: layout}
}

func (r *StoreRepo) LoadActive(_ context.Context, customerID string) ([]entity.Store, error) {
	path := r.layout.ActiveStores(customerID)
	rows, err := readFile[storeRow](path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	out := make([]entity.Store, len(rows))
	for i, row := range rows {
		out[i] = entity.Store{CustomerID: row.CustomerID, StoreID: row.CustStoreID, Branch: row.StoreNumber}
	}
	return out, nil
}

func (r *StoreRepo) SaveActive(_ context.Context, customerID string, stores []entity.Store) (string, error) {
	path := r.layout.ActiveStores(customerID)
	return path, writeFile(path, toStoreRows(stores))
}

func (r *StoreRepo) SaveAll(_ context.Context, customerID string, stores []entity.Store) (string, error) {
	path := r.layout.AllStores(customerID)
	return path, writeFile(path, toStoreRows(stores))
}

func toStoreRows(stores []entity.Store) []storeRow {
	rows := make([]storeRow, len(stores))
	for i, s := range stores {
		rows[i] = storeRow{CustomerID: s.CustomerID, CustStoreID: s.StoreID, StoreNumber: s.Branch}
	}
	return rows
}
