package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
)

var _ repository.MasterDataRepository = (*MasterDataRepo)(nil)

const (
	queryArticles = `
		SELECT customerId, custArtId
		FROM article
		WHERE customerId = ?`

	queryStores = `
		SELECT customerId, custStoreId, storeNumber
		FROM customerStore
		WHERE customerId = ?
		ORDER BY storeNumber`

	queryTransactionSales = `
		SELECT customerId, custStoreId, custArtId, custSizeId, quantity, bookingDate
		FROM transactionSales
		WHERE bookingDate = ?
		  AND customerId = ?`
)

// MasterDataRepo consultas de solo lectura sobre la base de datos del cliente.
type MasterDataRepo struct {
	db *sql.DB
}

// NewMasterDataRepository construye el adaptador con una conexión abierta.
func NewMasterDataRepository(db *sql.DB) *MasterDataRepo {
	return &MasterDataRepo{db: db}
}

func (r *MasterDataRepo) ListArticles(ctx context.Context, customerID string) ([]entity.Article, error) {
	rows, err := r.db.QueryContext(ctx, queryArticles, customerID)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var out []entity.Article
	for rows.Next() {
		var a entity.Article
		if err := rows.Scan(&a.CustomerID, &a.ArticleID); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *MasterDataRepo) ListStores(ctx context.Context, customerID string) ([]entity.Store, error) {
	rows, err := r.db.QueryContext(ctx, queryStores, customerID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var out []entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.CustomerID, &s.StoreID, &s.Branch); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *MasterDataRepo) ListTransactionSales(ctx context.Context, customerID string, bookingDate entity.Day) ([]entity.TransactionSale, error) {
	rows, err := r.db.QueryContext(ctx, queryTransactionSales, bookingDate.Int(), customerID)
	if err != nil {
		return nil, fmt.Errorf("list transaction sales: %w", err)
	}
	defer rows.Close()

	var out []entity.TransactionSale
	for rows.Next() {
		var s entity.TransactionSale
		if err := rows.Scan(&s.CustomerID, &s.StoreID, &s.ArticleID, &s.SizeID, &s.Quantity, &s.BookingDate); err != nil {
			return nil, fmt.Errorf("scan transaction sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
