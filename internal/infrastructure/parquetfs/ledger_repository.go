package parquetfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
)

// LedgerRepo registro de ejecuciones en un único archivo por cliente.
type LedgerRepo struct {
	layout Layout
}

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

func NewLedgerRepo(layout Layout) *LedgerRepo {
	return &LedgerRepo{layout: layout}
}

func (r *LedgerRepo) Load(_ context.Context, customerID string) ([]entity.ExecutionRecord, error) {
	rows, err := readFile[executionRow](r.layout.Ledger(customerID))
	if errors.Is(err, fs.ErrNotExist) {
		return []entity.ExecutionRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]entity.ExecutionRecord, 0, len(rows))
	for _, row := range rows {
		m := monthByName(row.Month)
		if m == 0 {
			return nil, fmt.Errorf("registro de ejecuciones: mes %q inválido", row.Month)
		}
		out = append(out, entity.ExecutionRecord{
			CustomerID: row.CustomerID,
			Year:       int(row.Year),
			Month:      m,
			Day:        int(row.Day),
			ExecutedAt: row.ExecutedAt,
		})
	}
	return out, nil
}

func (r *LedgerRepo) Replace(_ context.Context, customerID string, records []entity.ExecutionRecord) error {
	rows := make([]executionRow, len(records))
	for i, rec := range records {
		rows[i] = executionRow{
			CustomerID: rec.CustomerID,
			Year:       int32(rec.Year),
			Month:      rec.Month.String(),
			Day:        int32(rec.Day),
			ExecutedAt: rec.ExecutedAt,
		}
	}
	return writeFile(r.layout.Ledger(customerID), rows)
}
