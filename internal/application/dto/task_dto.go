package dto

import (
	"time"

	"github.com/jhoicas/stockdelta/internal/application/analytics"
	"github.com/jhoicas/stockdelta/internal/application/inventory"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

// TaskResponse resultado de una tarea del pipeline, igual para HTTP y CLI.
type TaskResponse struct {
	RunID      string        `json:"run_id"`
	Task       string        `json:"task"`
	CustomerID string        `json:"customer_id"`
	Day        string        `json:"day,omitempty"`
	Path       string        `json:"path,omitempty"`
	Rows       int           `json:"rows"`
	Status     string        `json:"status"` // ok | skipped | incomplete | failed
	Elapsed    time.Duration `json:"elapsed_ns"`
	Snapshot   *SnapshotInfo `json:"snapshot,omitempty"`
	Diff       *DiffInfo     `json:"diff,omitempty"`
}

// SnapshotInfo detalle de la descarga.
type SnapshotInfo struct {
	Articles int     `json:"articles"`
	Rounds   int     `json:"rounds"`
	Dropped  []int64 `json:"dropped,omitempty"`
	Pending  []int64 `json:"pending,omitempty"`
}

// DiffInfo fechas comparadas y estado final.
type DiffInfo struct {
	State    string `json:"state"`
	Previous string `json:"previous,omitempty"`
}

const (
	StatusOK         = "ok"
	StatusSkipped    = "skipped"
	StatusIncomplete = "incomplete"
	StatusFailed     = "failed"
)

// FromSnapshot convierte el resultado de la ingesta.
func FromSnapshot(o inventory.SnapshotOutcome) TaskResponse {
	status := StatusOK
	if o.Incomplete {
		status = StatusIncomplete
	}
	return TaskResponse{
		Task:   "snapshot",
		Day:    o.Day.String(),
		Path:   o.Path,
		Rows:   o.Rows,
		Status: status,
		Snapshot: &SnapshotInfo{
			Articles: o.Articles,
			Rounds:   o.Rounds,
			Dropped:  o.Dropped,
			Pending:  o.Pending,
		},
	}
}

// FromPivot convierte el resultado del pivot.
func FromPivot(o inventory.PivotOutcome) TaskResponse {
	return TaskResponse{Task: "pivot", Day: o.Day.String(), Path: o.Path, Rows: o.Rows, Status: StatusOK}
}

// FromSales convierte el resultado de ventas.
func FromSales(o analytics.SalesOutcome) TaskResponse {
	if o.Skipped {
		return TaskResponse{Task: "sales", Status: StatusSkipped}
	}
	return TaskResponse{Task: "sales", Day: o.Day.String(), Path: o.Dir, Rows: o.Rows, Status: StatusOK}
}

// FromDiff convierte el resultado del diff.
func FromDiff(o inventory.DiffOutcome) TaskResponse {
	r := TaskResponse{
		Task:   "diff",
		Day:    o.Current.String(),
		Path:   o.Path,
		Rows:   len(o.Rows),
		Status: StatusOK,
		Diff:   &DiffInfo{State: string(o.State)},
	}
	if o.State == inventory.DiffSkippedNoComparison {
		r.Status = StatusSkipped
	} else {
		r.Diff.Previous = o.Previous.String()
	}
	return r
}

// StoresResponse resultado de la sincronización del maestro de tiendas.
type StoresResponse struct {
	RunID      string `json:"run_id"`
	CustomerID string `json:"customer_id"`
	Path       string `json:"path"`
	Rows       int    `json:"rows"`
}

// HealthResponse cuerpo de GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

// DeltaResponse cambios de stock entre dos días.
type DeltaResponse struct {
	CustomerID string     `json:"customer_id"`
	Current    string     `json:"current"`
	Previous   string     `json:"previous"`
	Rows       []DeltaDTO `json:"rows"`
}

// DeltaDTO una fila de cambios.
type DeltaDTO struct {
	ArticleID      int64  `json:"article_id"`
	StoreID        string `json:"store_id"`
	Size           int32  `json:"size"`
	SizeIndex      int32  `json:"size_index"`
	PreviousAmount int8   `json:"pre_amount"`
	CurrentAmount  int8   `json:"curr_amount"`
}

// FromDeltaRows aplana las filas de cambios; las matrices de tiendas no se exponen.
func FromDeltaRows(customerID string, current, previous entity.Day, rows []entity.DeltaRow) DeltaResponse {
	out := DeltaResponse{
		CustomerID: customerID,
		Current:    current.String(),
		Previous:   previous.String(),
		Rows:       make([]DeltaDTO, len(rows)),
	}
	for i, r := range rows {
		out.Rows[i] = DeltaDTO{
			ArticleID:      r.ArticleID,
			StoreID:        r.StoreID,
			Size:           r.Size,
			SizeIndex:      r.SizeIndex,
			PreviousAmount: r.PreviousAmount,
			CurrentAmount:  r.CurrentAmount,
		}
	}
	return out
}
