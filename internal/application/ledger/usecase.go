// Package ledger mantiene el registro rodante de ejecuciones exitosas y resuelve
// los dos últimos días en que el pipeline realmente corrió (no necesariamente hoy
// y ayer: fines de semana, festivos o ejecuciones fallidas dejan huecos).
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

const (
	// RetainedRecords entradas que conserva el registro tras cada escritura.
	RetainedRecords = 20
	// LookbackDays días hacia atrás en que se busca la fecha previa.
	LookbackDays = 20
)

// SnapshotChecker indica si existe un snapshot completo para un día.
type SnapshotChecker interface {
	Exists(ctx context.Context, customerID string, day entity.Day) (bool, error)
}

// Resolution par de fechas a comparar. Sin HasPrevious no hay comparación posible.
type Resolution struct {
	Current     entity.Day
	Previous    entity.Day
	HasPrevious bool
}

// UseCase registro de ejecuciones con contrato leer-modificar-escribir;
// una sola invocación por cliente a la vez.
type UseCase struct {
	repo      repository.LedgerRepository
	snapshots SnapshotChecker
	loc       *time.Location
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. loc define el día de calendario de cada timestamp.
func NewUseCase(repo repository.LedgerRepository, snapshots SnapshotChecker, loc *time.Location, log *logger.Logger) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{repo: repo, snapshots: snapshots, loc: loc, log: log}
}

// RecordExecution añade la ejecución actual, deduplica por día y trunca a RetainedRecords.
func (uc *UseCase) RecordExecution(ctx context.Context, customerID string, at time.Time) ([]entity.ExecutionRecord, error) {
	records, err := uc.repo.Load(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("cargar registro de ejecuciones: %w", err)
	}
	records = append(records, entity.NewExecutionRecord(customerID, at.In(uc.loc)))
	records = Compact(records)

	if err := uc.repo.Replace(ctx, customerID, records); err != nil {
		return nil, fmt.Errorf("guardar registro de ejecuciones: %w", err)
	}
	logger.FromContext(ctx, uc.log).Info().
		Str("customer", customerID).
		Time("executed_at", at).
		Int("records", len(records)).
		Msg("ejecución registrada")
	return records, nil
}

// Compact conserva un registro por (cliente, día) con el timestamp máximo, ordena
// ascendente por timestamp y se queda con los últimos RetainedRecords.
func Compact(records []entity.ExecutionRecord) []entity.ExecutionRecord {
	type key struct {
		customer string
		day      entity.Day
	}
	latest := make(map[key]entity.ExecutionRecord, len(records))
	for _, r := range records {
		k := key{r.CustomerID, r.CalendarDay()}
		if cur, ok := latest[k]; !ok || r.ExecutedAt.After(cur.ExecutedAt) {
			latest[k] = r
		}
	}
	out := make([]entity.ExecutionRecord, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExecutedAt.Before(out[j].ExecutedAt) })
	if len(out) > RetainedRecords {
		out = out[len(out)-RetainedRecords:]
	}
	return out
}

// ResolveLastTwoValidDates devuelve el día de la última ejecución y el día más
// cercano anterior (hasta LookbackDays) que esté en el registro y tenga snapshot.
func (uc *UseCase) ResolveLastTwoValidDates(ctx context.Context, customerID string) (Resolution, error) {
	records, err := uc.repo.Load(ctx, customerID)
	if err != nil {
		return Resolution{}, fmt.Errorf("cargar registro de ejecuciones: %w", err)
	}
	if len(records) == 0 {
		return Resolution{}, fmt.Errorf("cliente %s: %w", customerID, domain.ErrNoExecutions)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].ExecutedAt.Before(records[j].ExecutedAt) })

	known := make(map[entity.Day]struct{}, len(records))
	for _, r := range records {
		known[r.CalendarDay()] = struct{}{}
	}

	current := entity.DayOf(records[len(records)-1].ExecutedAt.In(uc.loc))
	if _, ok := known[current]; !ok {
		days := make([]string, 0, len(records))
		for _, r := range records {
			days = append(days, r.CalendarDay().String())
		}
		return Resolution{}, &domain.LedgerInconsistencyError{Current: current.String(), Known: days}
	}

	res := Resolution{Current: current}
	for i := 1; i <= LookbackDays; i++ {
		candidate := current.AddDays(-i)
		if _, ok := known[candidate]; !ok {
			continue
		}
		exists, err := uc.snapshots.Exists(ctx, customerID, candidate)
		if err != nil {
			logger.FromContext(ctx, uc.log).Warn().Err(err).Str("day", candidate.String()).Msg("no se pudo comprobar el snapshot, se sigue buscando")
			continue
		}
		if !exists {
			logger.FromContext(ctx, uc.log).Debug().Str("day", candidate.String()).Msg("día registrado sin snapshot en disco")
			continue
		}
		res.Previous = candidate
		res.HasPrevious = true
		break
	}

	ev := logger.FromContext(ctx, uc.log).Info().Str("customer", customerID).Str("current", res.Current.String())
	if res.HasPrevious {
		ev.Str("previous", res.Previous.String()).Msg("fechas resueltas")
	} else {
		ev.Int("lookback_days", LookbackDays).Msg("sin fecha previa válida, no hay comparación posible")
	}
	return res, nil
}
