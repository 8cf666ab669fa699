package repository

import (
	"context"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// LedgerRepository puerto del registro rodante de ejecuciones.
// Load sin archivo devuelve lista vacía; Replace sobrescribe el registro completo.
type LedgerRepository interface {
	Load(ctx context.Context, customerID string) ([]entity.ExecutionRecord, error)
	Replace(ctx context.Context, customerID string, records []entity.ExecutionRecord) error
}
