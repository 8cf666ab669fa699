package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	apphttp "github.com/jhoicas/stockdelta/internal/interfaces/http"
)

func newServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Servidor HTTP de disparadores para el orquestador",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *App, _ string) error {
				return serve(cmd.Context(), app)
			})
		},
	}
}

func serve(ctx context.Context, app *App) error {
	cfg, log := app.Config, app.Log

	// Sin WriteTimeout: una ingesta completa puede tardar minutos.
	server := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	server.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if !apphttp.Docs(server, cfg.HTTP.DocsFile, cfg.App.Name+" API") {
		log.Warn().Str("file", cfg.HTTP.DocsFile).Msg("sin swagger.json, /docs deshabilitado (generar con swag init)")
	}

	apphttp.Router(server, apphttp.RouterDeps{
		AppName: cfg.App.Name,
		Tasks:   app.Tasks,
		Deltas:  app.Deltas,
		Metrics: app.Metrics.Handler(),
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		errCh <- server.Listen(cfg.HTTP.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	log.Info().Msg("servidor detenido")
	return nil
}
