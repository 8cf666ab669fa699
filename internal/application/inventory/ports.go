package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stockdelta/internal/application/ledger"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// DateResolver resuelve el día actual y el anterior válido a partir del registro de ejecuciones.
type DateResolver interface {
	ResolveLastTwoValidDates(ctx context.Context, customerID string) (ledger.Resolution, error)
}

// ExecutionRecorder registra una ejecución exitosa del snapshot.
type ExecutionRecorder interface {
	RecordExecution(ctx context.Context, customerID string, at time.Time) ([]entity.ExecutionRecord, error)
}

// ActiveStoreProvider conjunto de tiendas activas de un cliente.
type ActiveStoreProvider interface {
	ActiveStores(ctx context.Context, customerID string) (entity.ActiveStoreSet, error)
}

// StockPivotProducer capacidad "produce el pivot diario de stock".
type StockPivotProducer interface {
	ProduceDailyPivot(ctx context.Context, customerID string) (PivotOutcome, error)
}
