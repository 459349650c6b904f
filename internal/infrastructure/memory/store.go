// Package memory implementa el almacén de entidades en proceso. Se usa en pruebas y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/inventory-manager/internal/domain/entity"
)

// Store guarda las cuatro entidades en mapas protegidos por un RWMutex.
// Las escrituras se preparan en un Tx y se aplican juntas bajo el lock de escritura.
type Store struct {
	mu        sync.RWMutex
	items     map[string]*entity.Item
	locations map[string]*entity.Location
	suppliers map[string]*entity.Supplier
	movements []*entity.Movement

	itemLocks *keyedLocks
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{
		items:     make(map[string]*entity.Item),
		locations: make(map[string]*entity.Location),
		suppliers: make(map[string]*entity.Supplier),
		itemLocks: newKeyedLocks(),
	}
}

// Items devuelve el repositorio de artículos fuera de transacción (cada escritura se confirma sola).
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Locations devuelve el repositorio de ubicaciones fuera de transacción.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

// Suppliers devuelve el repositorio de proveedores fuera de transacción.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }

// Movements devuelve el repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Reports devuelve el repositorio de lectura para reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

// keyedLocks exclusión mutua por clave; la espera respeta la cancelación del contexto.
type keyedLocks struct {
	mu sync.Mutex
	m  map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{m: make(map[string]*keyLock)}
}

func (k *keyedLocks) lock(ctx context.Context, key string) error {
	k.mu.Lock()
	l, ok := k.m[key]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		k.m[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		k.mu.Lock()
		k.drop(key, l)
		k.mu.Unlock()
		return ctx.Err()
	}
}

func (k *keyedLocks) unlock(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.m[key]
	if !ok {
		return
	}
	<-l.ch
	k.drop(key, l)
}

// drop requiere k.mu tomado.
func (k *keyedLocks) drop(key string, l *keyLock) {
	l.refs--
	if l.refs == 0 {
		delete(k.m, key)
	}
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortItems(list []*entity.Item) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

func strPtrEq(p *string, v string) bool {
	return p != nil && *p == v
}

// view ejecuta fn con el lock de lectura sobre la vista de tx (o sobre el estado confirmado si tx es nil).
func (s *Store) view(tx *Tx, fn func(t *Tx)) {
	if tx == nil {
		tx = s.begin()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(tx)
}

// write prepara cambios en tx; sin tx abre una unidad de trabajo propia y la confirma.
func (s *Store) write(tx *Tx, fn func(t *Tx) error) error {
	own := tx == nil
	if own {
		tx = s.begin()
	}
	s.mu.RLock()
	err := fn(tx)
	s.mu.RUnlock()
	if err != nil || !own {
		return err
	}
	return tx.commit()
}
