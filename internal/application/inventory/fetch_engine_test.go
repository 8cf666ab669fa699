package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// fakeStockAPI devuelve, por artículo, los errores programados en orden y luego éxito.
type fakeStockAPI struct {
	mu       sync.Mutex
	failures map[int64][]error
	calls    map[int64]int
	always   map[int64]error
}

func newFakeStockAPI() *fakeStockAPI {
	return &fakeStockAPI{
		failures: map[int64][]error{},
		calls:    map[int64]int{},
		always:   map[int64]error{},
	}
}

func (f *fakeStockAPI) FetchArticleStock(_ context.Context, id int64) ([]entity.StockRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if err, ok := f.always[id]; ok {
		return nil, err
	}
	if q := f.failures[id]; len(q) > 0 {
		f.failures[id] = q[1:]
		return nil, q[0]
	}
	return []entity.StockRow{
		{ArticleID: id, StoreID: "1", Size: 40, SizeIndex: 3, Amount: 2},
		{ArticleID: id, StoreID: "3", Size: 40, SizeIndex: 3, Amount: 1},
	}, nil
}

func transient(id int64) error {
	return &domain.TransportError{ArticleID: id, StatusCode: 503, Retryable: true, Err: errors.New("unavailable")}
}

func ids(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(1000 + i)
	}
	return out
}

func sorted(in []int64) []int64 {
	out := append([]int64(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func newEngine(api *fakeStockAPI, rounds int) *FetchEngine {
	return NewFetchEngine(api, FetchConfig{Workers: 4, MaxRounds: rounds}, nil, logger.Nop())
}

func TestFetchAll_SingleRoundWhenEverythingSucceeds(t *testing.T) {
	api := newFakeStockAPI()

	res, err := newEngine(api, 5).FetchAll(context.Background(), ids(10))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rounds)
	assert.Len(t, res.Fetched, 10)
	assert.Len(t, res.Rows, 20)
	assert.False(t, res.Incomplete)
}

func TestFetchAll_RetriesOnlyFailedSubset(t *testing.T) {
	api := newFakeStockAPI()
	api.failures[1001] = []error{transient(1001)}
	api.failures[1003] = []error{transient(1003), transient(1003)}

	res, err := newEngine(api, 5).FetchAll(context.Background(), ids(6))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rounds)
	assert.Equal(t, ids(6), sorted(res.Fetched))
	assert.Len(t, res.Rows, 12)

	assert.Equal(t, 1, api.calls[1000], "los artículos correctos no se vuelven a pedir")
	assert.Equal(t, 2, api.calls[1001])
	assert.Equal(t, 3, api.calls[1003])
}

func TestFetchAll_NonTransportFailuresAreRetriedToo(t *testing.T) {
	api := newFakeStockAPI()
	api.failures[1002] = []error{errors.New("payload inesperado")}

	res, err := newEngine(api, 3).FetchAll(context.Background(), ids(3))
	require.NoError(t, err)
	assert.Equal(t, ids(3), sorted(res.Fetched))
	assert.Empty(t, res.Dropped)
	assert.Equal(t, 2, api.calls[1002])
}

func TestFetchAll_TerminalFailuresAreDroppedAndAccountedFor(t *testing.T) {
	api := newFakeStockAPI()
	api.always[1001] = &domain.TransportError{ArticleID: 1001, StatusCode: 404, Retryable: false, Err: domain.ErrArticleNotFound}

	res, err := newEngine(api, 3).FetchAll(context.Background(), ids(4))
	require.NoError(t, err)
	assert.Equal(t, []int64{1001}, res.Dropped)
	assert.Equal(t, []int64{1000, 1002, 1003}, sorted(res.Fetched))
	assert.Equal(t, 1, api.calls[1001], "un fallo definitivo no se reintenta")
}

func TestFetchAll_ExhaustsAfterMaxRounds(t *testing.T) {
	api := newFakeStockAPI()
	api.always[1002] = transient(1002)

	res, err := newEngine(api, 3).FetchAll(context.Background(), ids(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchExhausted)

	var exhausted *domain.FetchExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Rounds)
	assert.Equal(t, []int64{1002}, exhausted.Pending)

	assert.True(t, res.Incomplete)
	assert.Len(t, res.Fetched, 4, "las filas parciales se conservan")
	assert.Equal(t, 3, api.calls[1002])
}

func TestFetchAll_EveryArticleIsAccountedFor(t *testing.T) {
	api := newFakeStockAPI()
	api.always[1000] = transient(1000)
	api.always[1004] = domain.ErrArticleNotFound
	api.failures[1007] = []error{transient(1007)}
	requested := ids(9)

	res, err := newEngine(api, 2).FetchAll(context.Background(), requested)
	require.ErrorIs(t, err, domain.ErrFetchExhausted)

	var all []int64
	all = append(all, res.Fetched...)
	all = append(all, res.Dropped...)
	all = append(all, res.Pending...)
	assert.Equal(t, requested, sorted(all))
}

func TestFetchAll_StopsBetweenRoundsWhenCancelled(t *testing.T) {
	api := newFakeStockAPI()
	api.always[1001] = transient(1001)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newEngine(api, 10).FetchAll(ctx, ids(3))
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Incomplete)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, []int64{1001}, res.Pending)
}

// cancelOnCall cancela el contexto en la n-ésima llamada para un artículo y falla esa llamada.
type cancelOnCall struct {
	*fakeStockAPI
	article int64
	n       int
	cancel  context.CancelFunc
}

func (c *cancelOnCall) FetchArticleStock(ctx context.Context, id int64) ([]entity.StockRow, error) {
	rows, err := c.fakeStockAPI.FetchArticleStock(ctx, id)
	c.mu.Lock()
	hit := id == c.article && c.calls[id] == c.n
	c.mu.Unlock()
	if hit {
		c.cancel()
		return nil, transient(id)
	}
	return rows, err
}

func TestFetchAll_CancelDuringLastRoundIsNotExhaustion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api := &cancelOnCall{fakeStockAPI: newFakeStockAPI(), article: 1001, n: 2, cancel: cancel}
	api.failures[1001] = []error{transient(1001)}

	res, err := NewFetchEngine(api, FetchConfig{Workers: 2, MaxRounds: 2}, nil, logger.Nop()).FetchAll(ctx, ids(3))
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrFetchExhausted)
	assert.True(t, res.Incomplete)
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, []int64{1001}, res.Pending)
}

func TestFetchAll_DuplicateIDsRequestedOnce(t *testing.T) {
	api := newFakeStockAPI()

	res, err := newEngine(api, 1).FetchAll(context.Background(), []int64{7, 7, 8})
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, sorted(res.Fetched))
	assert.Equal(t, 1, api.calls[7])
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(transient(1)))
	assert.True(t, Retryable(errors.New("x")))
	assert.False(t, Retryable(domain.ErrArticleNotFound))
	assert.False(t, Retryable(&domain.TransportError{StatusCode: 400, Retryable: false, Err: errors.New("bad")}))
}
