// Package cli comandos cobra: una tarea del pipeline por subcomando, más run,
// stores y serve.
package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stockdelta/pkg/config"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// RootOptions flags globales de todos los comandos.
type RootOptions struct {
	Customer string // vacío = CUSTOMER_ID
	Format   string // "text" | "json"

	// open construye la aplicación; los tests la reemplazan.
	open func(ctx context.Context) (*App, error)
}

// ValidFormats formatos de salida admitidos.
var ValidFormats = []string{"text", "json"}

// NewRootCommand crea el comando raíz.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{open: openFromEnv})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stockdelta",
		Short: "Pipeline diario de stock por tienda",
		Long: `Descarga el stock actual de cada artículo desde la API remota, construye la
matriz artículo/talla × tienda y detecta los cambios respecto al último día válido.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("formato %q inválido: debe ser uno de %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Customer, "customer", "c", "", "cliente (por defecto CUSTOMER_ID)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (json|text)")

	cmd.AddCommand(newTaskCommand(opts, "snapshot", "Descarga y guarda el stock actual", TaskRunner.Snapshot))
	cmd.AddCommand(newTaskCommand(opts, "pivot", "Construye la tabla pivot del día actual", TaskRunner.Pivot))
	cmd.AddCommand(newTaskCommand(opts, "sales", "Agrega las ventas del día previo válido", TaskRunner.Sales))
	cmd.AddCommand(newTaskCommand(opts, "diff", "Compara el pivot actual con el del día previo", TaskRunner.Diff))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newStoresCommand(opts))
	cmd.AddCommand(newServeCommand(opts))

	return cmd
}

// openFromEnv carga la configuración y construye la aplicación. Los logs van a
// stderr para no mezclarse con la salida json.
func openFromEnv(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	return Bootstrap(ctx, cfg, log)
}

// withApp abre la aplicación, resuelve el cliente y la cierra al terminar.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(app *App, customerID string) error) error {
	app, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	customerID := opts.Customer
	if customerID == "" {
		customerID = app.Config.Customer.ID
	}
	return fn(app, customerID)
}
