package parquetfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
)

// SnapshotRepo snapshots diarios crudos, un archivo por día.
type SnapshotRepo struct {
	layout Layout
}

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

func NewSnapshotRepo(layout Layout) *SnapshotRepo {
	return &SnapshotRepo{layout: layout}
}

// Save un snapshot completo reemplaza el del día y elimina el incompleto que
// hubiera; uno incompleto nunca pisa al completo.
func (r *SnapshotRepo) Save(_ context.Context, s entity.Snapshot) (string, error) {
	rows := make([]stockRow, len(s.Rows))
	for i, row := range s.Rows {
		rows[i] = stockRow{
			ArticleID: row.ArticleID,
			Branch:    row.StoreID,
			Size:      row.Size,
			SizeIndex: row.SizeIndex,
			Amount:    row.Amount,
			CreDate:   row.SnapshotAt,
		}
	}

	if s.Incomplete {
		path := r.layout.IncompleteSnapshot(s.CustomerID, s.Day)
		return path, writeFile(path, rows)
	}
	path := r.layout.Snapshot(s.CustomerID, s.Day)
	if err := writeFile(path, rows); err != nil {
		return "", err
	}
	stale := r.layout.IncompleteSnapshot(s.CustomerID, s.Day)
	if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return path, fmt.Errorf("eliminar snapshot incompleto %s: %w", stale, err)
	}
	return path, nil
}

func (r *SnapshotRepo) Get(_ context.Context, customerID string, day entity.Day) (entity.Snapshot, error) {
	path := r.layout.Snapshot(customerID, day)
	rows, err := readFile[stockRow](path)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrMissingSnapshot, path)
	}
	if err != nil {
		return entity.Snapshot{}, err
	}

	s := entity.Snapshot{CustomerID: customerID, Day: day, Rows: make([]entity.StockRow, len(rows))}
	for i, row := range rows {
		s.Rows[i] = entity.StockRow{
			ArticleID:  row.ArticleID,
			StoreID:    row.Branch,
			Size:       row.Size,
			SizeIndex:  row.SizeIndex,
			Amount:     row.Amount,
			SnapshotAt: row.CreDate,
		}
	}
	if len(rows) > 0 {
		s.TakenAt = rows[0].CreDate
	}
	return s, nil
}

func (r *SnapshotRepo) Exists(_ context.Context, customerID string, day entity.Day) (bool, error) {
	return fileExists(r.layout.Snapshot(customerID, day))
}

// PivotRepo tablas pivot diarias.
type PivotRepo struct {
	layout Layout
}

var _ repository.PivotRepository = (*PivotRepo)(nil)

func NewPivotRepo(layout Layout) *PivotRepo {
	return &PivotRepo{layout: layout}
}

func (r *PivotRepo) Save(_ context.Context, customerID string, day entity.Day, rows []entity.PivotRow) (string, error) {
	out := make([]pivotRow, len(rows))
	for i, p := range rows {
		size, index, err := sizeColumns(p.ArticleID, p.Size, p.SizeIndex)
		if err != nil {
			return "", err
		}
		out[i] = pivotRow{
			ArticleID:         p.ArticleID,
			Branch:            p.StoreID,
			Size:              size,
			SizeIndex:         index,
			CurrentAmount:     int32(p.CurrentAmount),
			CurrentAmountDate: p.CurrentAmountDate,
			Stores:            toStoreAmountRows(p.Stores),
		}
	}
	path := r.layout.Pivot(customerID, day)
	return path, writeFile(path, out)
}

// Get devuelve domain.ErrNotFound si el pivot del día no se construyó.
func (r *PivotRepo) Get(_ context.Context, customerID string, day entity.Day) ([]entity.PivotRow, error) {
	path := r.layout.Pivot(customerID, day)
	rows, err := readFile[pivotRow](path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: pivot %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	out := make([]entity.PivotRow, len(rows))
	for i, p := range rows {
		out[i] = entity.PivotRow{
			ArticleID:         p.ArticleID,
			StoreID:           p.Branch,
			Size:              p.Size,
			SizeIndex:         p.SizeIndex,
			CurrentAmount:     int8(p.CurrentAmount),
			CurrentAmountDate: p.CurrentAmountDate,
			Stores:            fromStoreAmountRows(p.Stores),
		}
	}
	return out, nil
}

// DeltaRepo tablas de cambios entre dos días.
type DeltaRepo struct {
	layout Layout
}

var _ repository.DeltaRepository = (*DeltaRepo)(nil)

func NewDeltaRepo(layout Layout) *DeltaRepo {
	return &DeltaRepo{layout: layout}
}

// Save escribe siempre, también sin filas, para que una re-ejecución reemplace el resultado anterior.
func (r *DeltaRepo) Save(_ context.Context, customerID string, current, previous entity.Day, rows []entity.DeltaRow) (string, error) {
	out := make([]deltaRow, len(rows))
	for i, d := range rows {
		size, index, err := sizeColumns(d.ArticleID, d.Size, d.SizeIndex)
		if err != nil {
			return "", err
		}
		out[i] = deltaRow{
			ArticleID:      d.ArticleID,
			Branch:         d.StoreID,
			Size:           size,
			SizeIndex:      index,
			CurrAmount:     int32(d.CurrentAmount),
			CurrAmountDate: d.CurrentAmountDate,
			PreAmount:      int32(d.PreviousAmount),
			PreAmountDate:  d.PreviousAmountDate,
			CurrStores:     toStoreAmountRows(d.CurrentStores),
			PreStores:      toStoreAmountRows(d.PreviousStores),
		}
	}
	path := r.layout.Delta(customerID, current, previous)
	return path, writeFile(path, out)
}

// Get lectura de una tabla de cambios ya escrita.
func (r *DeltaRepo) Get(_ context.Context, customerID string, current, previous entity.Day) ([]entity.DeltaRow, error) {
	path := r.layout.Delta(customerID, current, previous)
	rows, err := readFile[deltaRow](path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	out := make([]entity.DeltaRow, len(rows))
	for i, d := range rows {
		out[i] = entity.DeltaRow{
			ArticleID:          d.ArticleID,
			StoreID:            d.Branch,
			Size:               d.Size,
			SizeIndex:          d.SizeIndex,
			PreviousAmount:     int8(d.PreAmount),
			PreviousAmountDate: d.PreAmountDate,
			CurrentAmount:      int8(d.CurrAmount),
			CurrentAmountDate:  d.CurrAmountDate,
			PreviousStores:     fromStoreAmountRows(d.PreStores),
			CurrentStores:      fromStoreAmountRows(d.CurrStores),
		}
	}
	return out, nil
}

func sizeColumns(article int64, size, index int32) (int32, int32, error) {
	s, err := toInt16Column("size", article, size)
	if err != nil {
		return 0, 0, err
	}
	i, err := toInt16Column("sizeIndex", article, index)
	if err != nil {
		return 0, 0, err
	}
	return s, i, nil
}
