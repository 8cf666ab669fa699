package parquetfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// writeFile escribe rows en un temporal del mismo directorio y lo renombra sobre
// path: un lector nunca ve un archivo a medio escribir.
func writeFile[T any](path string, rows []T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*.parquet")
	if err != nil {
		return fmt.Errorf("crear temporal en %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name()) // no-op tras el rename

	if err := parquet.Write(tmp, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("escribir parquet %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("reemplazar %s: %w", path, err)
	}
	return nil
}

// readFile devuelve un error que cumple errors.Is(err, fs.ErrNotExist) si no hay archivo.
func readFile[T any](path string) ([]T, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("leer parquet %s: %w", path, err)
	}
	return rows, nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
