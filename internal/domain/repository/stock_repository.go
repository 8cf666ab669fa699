package repository

import (
	"context"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// SnapshotRepository define el puerto de persistencia de los snapshots diarios de stock.
// Un archivo por (cliente, día); escribir reemplaza el existente.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot entity.Snapshot) (path string, err error)
	// Get devuelve domain.ErrMissingSnapshot si no hay snapshot completo para el día.
	Get(ctx context.Context, customerID string, day entity.Day) (entity.Snapshot, error)
	// Exists solo considera snapshots completos; los incompletos no cuentan.
	Exists(ctx context.Context, customerID string, day entity.Day) (bool, error)
}

// PivotRepository puerto de las tablas pivot derivadas de un snapshot.
type PivotRepository interface {
	Save(ctx context.Context, customerID string, day entity.Day, rows []entity.PivotRow) (path string, err error)
	Get(ctx context.Context, customerID string, day entity.Day) ([]entity.PivotRow, error)
}

// DeltaRepository puerto de las tablas de cambios entre dos días.
type DeltaRepository interface {
	Save(ctx context.Context, customerID string, current, previous entity.Day, rows []entity.DeltaRow) (path string, err error)
}
