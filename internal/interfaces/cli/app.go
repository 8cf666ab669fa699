package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockdelta/internal/application/analytics"
	"github.com/jhoicas/stockdelta/internal/application/inventory"
	"github.com/jhoicas/stockdelta/internal/application/ledger"
	"github.com/jhoicas/stockdelta/internal/application/pipeline"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
	"github.com/jhoicas/stockdelta/internal/infrastructure/metrics"
	"github.com/jhoicas/stockdelta/internal/infrastructure/mysql"
	"github.com/jhoicas/stockdelta/internal/infrastructure/parquetfs"
	"github.com/jhoicas/stockdelta/internal/infrastructure/postgres"
	"github.com/jhoicas/stockdelta/internal/infrastructure/stockapi"
	apphttp "github.com/jhoicas/stockdelta/internal/interfaces/http"
	"github.com/jhoicas/stockdelta/pkg/config"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// App dependencias ya construidas que usan los comandos.
type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Tasks   apphttp.TaskRunner
	Deltas  apphttp.DeltaReader
	Metrics *metrics.Pipeline

	closers []func()
}

// Close exporta las métricas al textfile (si está configurado) y libera conexiones.
func (a *App) Close() {
	if a.Metrics != nil && a.Config != nil {
		if err := a.Metrics.WriteTextfile(a.Config.Metrics.Textfile); err != nil {
			a.Log.Warn().Err(err).Str("path", a.Config.Metrics.Textfile).Msg("no se pudo escribir el textfile de métricas")
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Bootstrap construye la aplicación completa a partir de la configuración.
func Bootstrap(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log, Metrics: metrics.New()}

	master, err := openMasterData(ctx, cfg.DB, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	loc := cfg.App.Location()
	now := func() time.Time { return time.Now().In(loc) }

	layout := parquetfs.NewLayout(cfg.Storage.DataRoot)
	snapshots := parquetfs.NewSnapshotRepo(layout)
	pivots := parquetfs.NewPivotRepo(layout)
	deltas := parquetfs.NewDeltaRepo(layout)
	stores := parquetfs.NewStoreRepo(layout)
	sales := parquetfs.NewSalesRepo(layout)
	articles := parquetfs.NewArticleRepo(layout)

	dates := ledger.NewUseCase(parquetfs.NewLedgerRepo(layout), snapshots, loc, log)

	client := stockapi.NewClient(stockapi.Config{
		URL:        cfg.StockAPI.URL,
		Token:      cfg.StockAPI.Token,
		AuthScheme: cfg.StockAPI.AuthScheme,
		Timeout:    cfg.StockAPI.Timeout,
	}, nil)
	engine := inventory.NewFetchEngine(client, inventory.FetchConfig{
		Workers:      cfg.Fetch.Workers,
		MaxRounds:    cfg.Fetch.MaxRounds,
		RetryBackoff: cfg.Fetch.RetryBackoff,
	}, app.Metrics, log)

	storeUC := inventory.NewStoreUseCase(stores, master, cfg.Customer.ActiveStores, log)

	app.Tasks = pipeline.NewRunner(pipeline.Deps{
		Snapshot: inventory.NewSnapshotUseCase(master, articles, engine, snapshots, dates, now, app.Metrics, log),
		Pivot: inventory.NewPivotUseCase(dates, snapshots, pivots,
			inventory.NewPivotBuilder(cfg.Fetch.Workers, log), app.Metrics, log),
		Sales: analytics.NewSalesUseCase(dates, master, sales, app.Metrics, log),
		Diff: inventory.NewDiffUseCase(dates, pivots, deltas, storeUC,
			cfg.Customer.CenterWarehouseBranch, app.Metrics, log),
		Stores:           storeUC,
		Metrics:          app.Metrics,
		SnapshotDeadline: cfg.Fetch.Deadline,
	}, log)
	app.Deltas = deltas

	log.Info().
		Str("data_root", layout.Root()).
		Str("db_driver", cfg.DB.Driver).
		Str("timezone", loc.String()).
		Int("workers", cfg.Fetch.Workers).
		Msg("aplicación inicializada")
	return app, nil
}

func openMasterData(ctx context.Context, cfg config.DBConfig, app *App) (repository.MasterDataRepository, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		app.closers = append(app.closers, pool.Close)
		return postgres.NewMasterDataRepository(pool), nil
	default:
		db, err := mysql.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a MySQL: %w", err)
		}
		app.closers = append(app.closers, func() { _ = db.Close() })
		return mysql.NewMasterDataRepository(db), nil
	}
}
