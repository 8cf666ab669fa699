package repository

import (
	"context"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// StoreRepository puerto de los archivos de referencia de tiendas.
type StoreRepository interface {
	// LoadActive devuelve domain.ErrNotFound si el archivo de tiendas activas no existe.
	LoadActive(ctx context.Context, customerID string) ([]entity.Store, error)
	SaveActive(ctx context.Context, customerID string, stores []entity.Store) (path string, err error)
	SaveAll(ctx context.Context, customerID string, stores []entity.Store) (path string, err error)
}
