package repository

import (
	"context"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// SalesRepository puerto de las ventas diarias agregadas, particionadas por tienda.
type SalesRepository interface {
	Save(ctx context.Context, customerID string, day entity.Day, sales []entity.DailySale) (dir string, err error)
}
