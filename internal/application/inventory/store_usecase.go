package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/stockdelta/internal/domain"
	"github.com/jhoicas/stockdelta/internal/domain/entity"
	"github.com/jhoicas/stockdelta/internal/domain/repository"
	"github.com/jhoicas/stockdelta/pkg/logger"
)

// StoreUseCase mantiene los archivos de referencia de tiendas del cliente.
type StoreUseCase struct {
	repo   repository.StoreRepository
	master repository.MasterDataRepository
	seed   string // "custStoreId:branch,..."
	log    *logger.Logger
}

var _ ActiveStoreProvider = (*StoreUseCase)(nil)

// NewStoreUseCase seed es la lista configurada con la que se crea el archivo de
// tiendas activas la primera vez; vacía para usar el maestro de tiendas.
func NewStoreUseCase(repo repository.StoreRepository, master repository.MasterDataRepository, seed string, log *logger.Logger) *StoreUseCase {
	return &StoreUseCase{repo: repo, master: master, seed: seed, log: log}
}

// ActiveStores lee el archivo de tiendas activas; si no existe lo crea a partir de
// la lista configurada o, en su defecto, del maestro de tiendas.
func (uc *StoreUseCase) ActiveStores(ctx context.Context, customerID string) (entity.ActiveStoreSet, error) {
	stores, err := uc.repo.LoadActive(ctx, customerID)
	if err == nil {
		return entity.NewActiveStoreSet(stores), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return entity.ActiveStoreSet{}, fmt.Errorf("leer tiendas activas: %w", err)
	}

	source := "config"
	stores, err = ParseStoreList(customerID, uc.seed)
	if err != nil {
		return entity.ActiveStoreSet{}, err
	}
	if len(stores) == 0 {
		source = "maestro"
		if stores, err = uc.master.ListStores(ctx, customerID); err != nil {
			return entity.ActiveStoreSet{}, fmt.Errorf("listar tiendas del maestro: %w", err)
		}
	}

	set := entity.NewActiveStoreSet(stores)
	path, err := uc.repo.SaveActive(ctx, customerID, set.Stores())
	if err != nil {
		return entity.ActiveStoreSet{}, fmt.Errorf("guardar tiendas activas: %w", err)
	}
	logger.FromContext(ctx, uc.log).Info().Str("path", path).Str("source", source).Int("rows", set.Len()).Msg("archivo de tiendas activas creado")
	return set, nil
}

// SyncAllStores vuelca el maestro completo de tiendas. Un mismo número de tienda
// con varias sucursales se avisa pero se guarda tal cual.
func (uc *StoreUseCase) SyncAllStores(ctx context.Context, customerID string) (string, int, error) {
	stores, err := uc.master.ListStores(ctx, customerID)
	if err != nil {
		return "", 0, fmt.Errorf("listar tiendas del maestro: %w", err)
	}

	seen := make(map[string]int, len(stores))
	for _, s := range stores {
		seen[s.Branch]++
	}
	for branch, n := range seen {
		if n > 1 {
			logger.FromContext(ctx, uc.log).Warn().Str("branch", branch).Int("count", n).Msg("número de tienda duplicado en el maestro")
		}
	}

	path, err := uc.repo.SaveAll(ctx, customerID, stores)
	if err != nil {
		return "", 0, fmt.Errorf("guardar maestro de tiendas: %w", err)
	}
	logger.FromContext(ctx, uc.log).Info().Str("path", path).Int("rows", len(stores)).Msg("maestro de tiendas guardado")
	return path, len(stores), nil
}

// ParseStoreList interpreta "custStoreId:branch,..."; cadena vacía devuelve nil.
func ParseStoreList(customerID, s string) ([]entity.Store, error) {
	var out []entity.Store
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, branch, ok := strings.Cut(part, ":")
		id, branch = strings.TrimSpace(id), strings.TrimSpace(branch)
		if !ok || id == "" || branch == "" {
			return nil, fmt.Errorf("%w: tienda %q, se espera custStoreId:branch", domain.ErrInvalidInput, part)
		}
		out = append(out, entity.Store{CustomerID: customerID, StoreID: id, Branch: branch})
	}
	return out, nil
}
