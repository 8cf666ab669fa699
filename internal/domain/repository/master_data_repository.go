package repository

import (
	"context"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// MasterDataRepository consultas de solo lectura contra la base de datos fuente
// (maestro de artículos, maestro de tiendas, ventas).
type MasterDataRepository interface {
	ListArticles(ctx context.Context, customerID string) ([]entity.Article, error)
	ListStores(ctx context.Context, customerID string) ([]entity.Store, error)
	ListTransactionSales(ctx context.Context, customerID string, bookingDate entity.Day) ([]entity.TransactionSale, error)
}
