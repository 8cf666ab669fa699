package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stockdelta/internal/application/dto"
	apphttp "github.com/jhoicas/stockdelta/internal/interfaces/http"
)

// TaskRunner mismas tareas que expone el servidor HTTP.
type TaskRunner = apphttp.TaskRunner

type taskFunc func(r TaskRunner, ctx context.Context, customerID string) (dto.TaskResponse, error)

func newTaskCommand(opts *RootOptions, name, short string, fn taskFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *App, customerID string) error {
				resp, err := fn(app.Tasks, cmd.Context(), customerID)
				// Un snapshot incompleto también tiene resultado que mostrar.
				if err == nil || resp.Status == dto.StatusIncomplete {
					if perr := printTasks(cmd.OutOrStdout(), opts.Format, resp); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
}

func newRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Ejecuta el día completo: snapshot, pivot y ventas, diff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *App, customerID string) error {
				out, err := app.Tasks.Run(cmd.Context(), customerID)
				if perr := printTasks(cmd.OutOrStdout(), opts.Format, out...); perr != nil {
					return perr
				}
				return err
			})
		},
	}
}

func newStoresCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Maestro de tiendas",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Vuelca todas las tiendas del cliente desde la base de datos fuente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *App, customerID string) error {
				out, err := app.Tasks.SyncStores(cmd.Context(), customerID)
				if err != nil {
					return err
				}
				return printStores(cmd.OutOrStdout(), opts.Format, out)
			})
		},
	})
	return cmd
}
