package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdelta/internal/application/dto"
	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/pkg/config"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

type fakeRunner struct {
	customer string
	err      error
}

func (f *fakeRunner) resp(task string, customerID string) (dto.TaskResponse, error) {
	f.customer = customerID
	r := dto.TaskResponse{RunID: "run-1", Task: task, CustomerID: customerID, Day: "2024-03-05", Rows: 3, Path: task + ".parquet", Status: dto.StatusOK}
	if f.err != nil {
		r.Status = dto.StatusIncomplete
		r.Snapshot = &dto.SnapshotInfo{Pending: []int64{7}, Rounds: 10}
	}
	return r, f.err
}

func (f *fakeRunner) Snapshot(_ context.Context, c string) (dto.TaskResponse, error) {
	return f.resp("snapshot", c)
}
func (f *fakeRunner) Pivot(_ context.Context, c string) (dto.TaskResponse, error) {
	return f.resp("pivot", c)
}
func (f *fakeRunner) Sales(_ context.Context, c string) (dto.TaskResponse, error) {
	return f.resp("sales", c)
}
func (f *fakeRunner) Diff(_ context.Context, c string) (dto.TaskResponse, error) {
	return f.resp("diff", c)
}
func (f *fakeRunner) Run(_ context.Context, c string) ([]dto.TaskResponse, error) {
	var out []dto.TaskResponse
	for _, task := range []string{"snapshot", "pivot", "sales", "diff"} {
		r, _ := f.resp(task, c)
		out = append(out, r)
	}
	return out, nil
}
func (f *fakeRunner) SyncStores(_ context.Context, c string) (dto.StoresResponse, error) {
	f.customer = c
	return dto.StoresResponse{RunID: "run-1", CustomerID: c, Path: "allStores.parquet", Rows: 16}, nil
}

func execute(t *testing.T, runner *fakeRunner, args ...string) (string, error) {
	t.Helper()
	opts := &RootOptions{open: func(context.Context) (*App, error) {
		return &App{
			Config: &config.Config{Customer: config.CustomerConfig{ID: "22001"}},
			Log:    logger.Nop(),
			Tasks:  runner,
		}, nil
	}}
	cmd := newRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "stockdelta", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, path := range [][]string{{"snapshot"}, {"pivot"}, {"sales"}, {"diff"}, {"run"}, {"serve"}, {"stores", "sync"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "%v", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	customer := cmd.PersistentFlags().Lookup("customer")
	require.NotNil(t, customer)
	assert.Equal(t, "c", customer.Shorthand)
	assert.Equal(t, "", customer.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, &fakeRunner{}, "pivot", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestTaskCommand_DefaultCustomer(t *testing.T) {
	runner := &fakeRunner{}
	out, err := execute(t, runner, "pivot")
	require.NoError(t, err)

	assert.Equal(t, "22001", runner.customer)
	assert.Contains(t, out, "pivot")
	assert.Contains(t, out, "rows=3")
	assert.Contains(t, out, "run_id=run-1")
}

func TestTaskCommand_CustomerFlagJSON(t *testing.T) {
	runner := &fakeRunner{}
	out, err := execute(t, runner, "diff", "-c", "30001", "--format", "json")
	require.NoError(t, err)

	var resp dto.TaskResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "30001", resp.CustomerID)
	assert.Equal(t, "diff", resp.Task)
}

func TestTaskCommand_IncompleteSnapshotPrintsAndFails(t *testing.T) {
	runner := &fakeRunner{err: &domain.FetchExhaustedError{Rounds: 10, Pending: []int64{7}}}
	out, err := execute(t, runner, "snapshot")

	require.ErrorIs(t, err, domain.ErrFetchExhausted)
	assert.Contains(t, out, dto.StatusIncomplete)
	assert.Contains(t, out, "pending=[7]")
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, &fakeRunner{}, "run", "--format", "json")
	require.NoError(t, err)

	var resp []dto.TaskResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp, 4)
	assert.Equal(t, "diff", resp[3].Task)
}

func TestStoresSync(t *testing.T) {
	out, err := execute(t, &fakeRunner{}, "stores", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "rows=16")
	assert.Contains(t, out, "allStores.parquet")
}
