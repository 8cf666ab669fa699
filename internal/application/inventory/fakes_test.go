package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockdelta/internal/application/ledger"
	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
)

type fixedDates struct {
	res ledger.Resolution
	err error
}

func (f fixedDates) ResolveLastTwoValidDates(context.Context, string) (ledger.Resolution, error) {
	return f.res, f.err
}

type recorder struct {
	calls []time.Time
}

func (r *recorder) RecordExecution(_ context.Context, customerID string, at time.Time) ([]entity.ExecutionRecord, error) {
	r.calls = append(r.calls, at)
	return []entity.ExecutionRecord{entity.NewExecutionRecord(customerID, at)}, nil
}

type memSnapshots struct {
	saved map[string]entity.Snapshot
}

func newMemSnapshots() *memSnapshots { return &memSnapshots{saved: map[string]entity.Snapshot{}} }

func (m *memSnapshots) Save(_ context.Context, s entity.Snapshot) (string, error) {
	path := s.Day.Compact() + ".parquet"
	if s.Incomplete {
		path = s.Day.Compact() + ".incomplete.parquet"
	}
	m.saved[path] = s
	return path, nil
}

func (m *memSnapshots) Get(_ context.Context, _ string, day entity.Day) (entity.Snapshot, error) {
	s, ok := m.saved[day.Compact()+".parquet"]
	if !ok {
		return entity.Snapshot{}, domain.ErrMissingSnapshot
	}
	return s, nil
}

func (m *memSnapshots) Exists(_ context.Context, _ string, day entity.Day) (bool, error) {
	_, ok := m.saved[day.Compact()+".parquet"]
	return ok, nil
}

type memPivots struct {
	byDay map[entity.Day][]entity.PivotRow
}

func newMemPivots() *memPivots { return &memPivots{byDay: map[entity.Day][]entity.PivotRow{}} }

func (m *memPivots) Save(_ context.Context, _ string, day entity.Day, rows []entity.PivotRow) (string, error) {
	m.byDay[day] = rows
	return "pivotArtStoresStock_" + day.Compact() + ".parquet", nil
}

func (m *memPivots) Get(_ context.Context, _ string, day entity.Day) ([]entity.PivotRow, error) {
	rows, ok := m.byDay[day]
	if !ok {
		return nil, domain.ErrMissingSnapshot
	}
	return rows, nil
}

type memDeltas struct {
	saved map[string][]entity.DeltaRow
}

func (m *memDeltas) Save(_ context.Context, _ string, current, previous entity.Day, rows []entity.DeltaRow) (string, error) {
	if m.saved == nil {
		m.saved = map[string][]entity.DeltaRow{}
	}
	path := fmt.Sprintf("dailyStockChanges_%s_vs_%s.parquet", current.Compact(), previous.Compact())
	m.saved[path] = rows
	return path, nil
}

type memStores struct {
	active []entity.Store
	all    []entity.Store
	saves  int
}

func (m *memStores) LoadActive(context.Context, string) ([]entity.Store, error) {
	if m.active == nil {
		return nil, domain.ErrNotFound
	}
	return m.active, nil
}

func (m *memStores) SaveActive(_ context.Context, _ string, stores []entity.Store) (string, error) {
	m.active = stores
	m.saves++
	return "activeStores.parquet", nil
}

func (m *memStores) SaveAll(_ context.Context, _ string, stores []entity.Store) (string, error) {
	m.all = stores
	return "allStores.parquet", nil
}

type memMaster struct {
	articles []entity.Article
	stores   []entity.Store
	sales    []entity.TransactionSale
}

func (m *memMaster) ListArticles(context.Context, string) ([]entity.Article, error) {
	return m.articles, nil
}

func (m *memMaster) ListStores(context.Context, string) ([]entity.Store, error) {
	return m.stores, nil
}

func (m *memMaster) ListTransactionSales(context.Context, string, entity.Day) ([]entity.TransactionSale, error) {
	return m.sales, nil
}

type memArticles struct {
	catalog []entity.Article
	counts  []entity.ArticleCount
}

func (m *memArticles) SaveCatalog(_ context.Context, _ string, day entity.Day, articles []entity.Article) (string, error) {
	m.catalog = articles
	return "article_" + day.Compact() + ".parquet", nil
}

func (m *memArticles) AppendCount(_ context.Context, _ string, _ entity.Day, c entity.ArticleCount) (string, error) {
	m.counts = append(m.counts, c)
	return "number_of_articles.parquet", nil
}
