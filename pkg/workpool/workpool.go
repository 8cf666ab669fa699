// Package workpool ejecuta trabajos independientes sobre un número acotado de goroutines.
// Cada trabajo escribe solo en su propia posición del resultado; no hay estado compartido.
package workpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultSize paralelismo disponible del proceso.
func DefaultSize() int {
	return runtime.GOMAXPROCS(0)
}

// Run aplica fn a cada item con a lo sumo size goroutines simultáneas y devuelve
// los resultados en el mismo orden que items. El primer error cancela el contexto
// compartido y se devuelve tras esperar al resto.
func Run[T, R any](ctx context.Context, size int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	if size < 1 {
		size = 1
	}
	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(size)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Split reparte items en n trozos contiguos de tamaño casi igual; los primeros
// len(items)%n trozos llevan un elemento más. Con n > len(items) quedan trozos vacíos.
func Split[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	chunks := make([][]T, n)
	base, extra := len(items)/n, len(items)%n
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		chunks[i] = items[start : start+size]
		start += size
	}
	return chunks
}

// Singletons un trozo por elemento.
func Singletons[T any](items []T) [][]T {
	chunks := make([][]T, len(items))
	for i := range items {
		chunks[i] = items[i : i+1]
	}
	return chunks
}
