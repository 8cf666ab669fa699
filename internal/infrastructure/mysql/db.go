// Package mysql fuente relacional de datos maestros (artículos, tiendas, ventas)
// sobre database/sql. El driver por defecto es MySQL.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/jhoicas/stockdelta/pkg/config"
)

// Open abre y verifica la conexión con la base de datos fuente.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("abrir conexión mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}
