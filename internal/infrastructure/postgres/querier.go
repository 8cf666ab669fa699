package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier lo que los repositorios necesitan de un pool o de una tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
