package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
)

var _ repository.MasterDataRepository = (*MasterDataRepo)(nil)

// MasterDataRepo datos maestros del cliente en una réplica PostgreSQL del esquema
// de origen. Las columnas conservan el camelCase del origen, por eso van entre comillas.
type MasterDataRepo struct {
	q Querier
}

// NewMasterDataRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMasterDataRepository(q Querier) *MasterDataRepo {
	return &MasterDataRepo{q: q}
}

func (r *MasterDataRepo) ListArticles(ctx context.Context, customerID string) ([]entity.Article, error) {
	query := `
		SELECT "customerId"::int4, "custArtId"::int4
		FROM article
		WHERE "customerId" = $1::int4`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Article, error) {
		var a entity.Article
		err := row.Scan(&a.CustomerID, &a.ArticleID)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan articles: %w", err)
	}
	return out, nil
}

func (r *MasterDataRepo) ListStores(ctx context.Context, customerID string) ([]entity.Store, error) {
	query := `
		SELECT "customerId"::text, "custStoreId"::text, "storeNumber"::text
		FROM "customerStore"
		WHERE "customerId" = $1::int4
		ORDER BY "storeNumber"`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Store, error) {
		var s entity.Store
		err := row.Scan(&s.CustomerID, &s.StoreID, &s.Branch)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan stores: %w", err)
	}
	return out, nil
}

func (r *MasterDataRepo) ListTransactionSales(ctx context.Context, customerID string, bookingDate entity.Day) ([]entity.TransactionSale, error) {
	query := `
		SELECT "customerId"::text, "custStoreId"::int4, "custArtId"::int4,
		       "custSizeId"::int2, quantity::int2, "bookingDate"::int4
		FROM "transactionSales"
		WHERE "bookingDate" = $1
		  AND "customerId" = $2::int4`
	rows, err := r.q.Query(ctx, query, bookingDate.Int(), customerID)
	if err != nil {
		return nil, fmt.Errorf("list transaction sales: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.TransactionSale, error) {
		var s entity.TransactionSale
		err := row.Scan(&s.CustomerID, &s.StoreID, &s.ArticleID, &s.SizeID, &s.Quantity, &s.BookingDate)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan transaction sales: %w", err)
	}
	return out, nil
}
