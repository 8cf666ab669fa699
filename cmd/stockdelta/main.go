package main

import (
	"context"
	"fmt"
	"os"

	// Zonas horarias embebidas; la imagen de producción no trae tzdata.
	_ "time/tzdata"

	"github.com/jhoicas/stockdelta/internal/interfaces/cli"
)

// @title        stockdelta API
// @version      1.0
// @description  Disparadores HTTP del pipeline diario de stock por cliente.
// @BasePath     /
func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
