package entity

import "sort"

// Store tienda del maestro del cliente. Branch es el identificador que usa la API de stock.
type Store struct {
	CustomerID string
	StoreID    string
	Branch     string
}

// ActiveStoreSet tiendas vivas de un cliente, indexadas por branch.
type ActiveStoreSet struct {
	stores []Store
}

// NewActiveStoreSet ordena por branch y elimina duplicados.
func NewActiveStoreSet(stores []Store) ActiveStoreSet {
	seen := make(map[string]struct{}, len(stores))
	out := make([]Store, 0, len(stores))
	for _, s := range stores {
		if _, ok := seen[s.Branch]; ok {
			continue
		}
		seen[s.Branch] = struct{}{}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })
	return ActiveStoreSet{stores: out}
}

func (a ActiveStoreSet) Stores() []Store { return append([]Store(nil), a.stores...) }

func (a ActiveStoreSet) Len() int { return len(a.stores) }

// Branches identificadores ordenados.
func (a ActiveStoreSet) Branches() []string {
	out := make([]string, len(a.stores))
	for i, s := range a.stores {
		out[i] = s.Branch
	}
	return out
}

// Except conjunto de branches activos sin el excluido (almacén central).
func (a ActiveStoreSet) Except(branch string) map[string]struct{} {
	out := make(map[string]struct{}, len(a.stores))
	for _, s := range a.stores {
		if s.Branch != branch {
			out[s.Branch] = struct{}{}
		}
	}
	return out
}
