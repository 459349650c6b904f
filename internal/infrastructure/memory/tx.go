package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Tx unidad de trabajo en memoria. Las lecturas ven el estado confirmado más lo preparado en la tx;
// un valor nil en los mapas preparados marca un borrado.
type Tx struct {
	s         *Store
	items     map[string]*entity.Item
	locations map[string]*entity.Location
	suppliers map[string]*entity.Supplier
	movements []*entity.Movement
	locked    map[string]struct{}
}

func (s *Store) begin() *Tx {
	return &Tx{
		s:         s,
		items:     make(map[string]*entity.Item),
		locations: make(map[string]*entity.Location),
		suppliers: make(map[string]*entity.Supplier),
		locked:    make(map[string]struct{}),
	}
}

// Run ejecuta fn dentro de una unidad de trabajo: confirma si fn devuelve nil y el contexto sigue vivo,
// descarta todo lo preparado en cualquier otro caso. Los bloqueos de artículos se liberan al salir.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	supplierRepo repository.SupplierRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.begin()
	defer tx.release()

	if err := fn(&ItemRepo{s: s, tx: tx}, &LocationRepo{s: s, tx: tx}, &SupplierRepo{s: s, tx: tx}, &MovementRepo{s: s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return tx.commit()
}

// lockItem toma el bloqueo del artículo una sola vez por tx.
func (t *Tx) lockItem(ctx context.Context, id string) error {
	if _, ok := t.locked[id]; ok {
		return nil
	}
	if err := t.s.itemLocks.lock(ctx, id); err != nil {
		return err
	}
	t.locked[id] = struct{}{}
	return nil
}

func (t *Tx) release() {
	for id := range t.locked {
		t.s.itemLocks.unlock(id)
	}
	t.locked = nil
}

// commit revalida las restricciones contra el estado actual y aplica todo bajo el lock de escritura.
func (t *Tx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.validate(); err != nil {
		return err
	}
	for id, l := range t.locations {
		if l == nil {
			delete(t.s.locations, id)
			continue
		}
		t.s.locations[id] = l
	}
	for id, sp := range t.suppliers {
		if sp == nil {
			delete(t.s.suppliers, id)
			continue
		}
		t.s.suppliers[id] = sp
	}
	for id, it := range t.items {
		if it == nil {
			delete(t.s.items, id)
			continue
		}
		t.s.items[id] = it
	}
	t.s.movements = append(t.s.movements, t.movements...)
	return nil
}

// validate requiere s.mu tomado.
func (t *Tx) validate() error {
	for id, l := range t.locations {
		var err error
		if l == nil {
			err = t.checkLocationDelete(id)
		} else {
			err = t.checkLocation(l)
		}
		if err != nil {
			return err
		}
	}
	for id, sp := range t.suppliers {
		var err error
		if sp == nil {
			err = t.checkSupplierDelete(id)
		} else {
			err = t.checkSupplier(sp)
		}
		if err != nil {
			return err
		}
	}
	for id, it := range t.items {
		var err error
		if it == nil {
			err = t.checkItemDelete(id)
		} else {
			err = t.checkItem(it)
		}
		if err != nil {
			return err
		}
	}
	for _, m := range t.movements {
		if err := t.checkMovement(m); err != nil {
			return err
		}
	}
	return nil
}

// Vista combinada (confirmado + preparado). Todas requieren s.mu tomado.

func (t *Tx) item(id string) *entity.Item {
	if it, ok := t.items[id]; ok {
		return it
	}
	return t.s.items[id]
}

func (t *Tx) eachItem(fn func(*entity.Item)) {
	for id, it := range t.s.items {
		if _, staged := t.items[id]; staged {
			continue
		}
		fn(it)
	}
	for _, it := range t.items {
		if it != nil {
			fn(it)
		}
	}
}

func (t *Tx) location(id string) *entity.Location {
	if l, ok := t.locations[id]; ok {
		return l
	}
	return t.s.locations[id]
}

func (t *Tx) eachLocation(fn func(*entity.Location)) {
	for id, l := range t.s.locations {
		if _, staged := t.locations[id]; staged {
			continue
		}
		fn(l)
	}
	for _, l := range t.locations {
		if l != nil {
			fn(l)
		}
	}
}

func (t *Tx) supplier(id string) *entity.Supplier {
	if sp, ok := t.suppliers[id]; ok {
		return sp
	}
	return t.s.suppliers[id]
}

func (t *Tx) eachSupplier(fn func(*entity.Supplier)) {
	for id, sp := range t.s.suppliers {
		if _, staged := t.suppliers[id]; staged {
			continue
		}
		fn(sp)
	}
	for _, sp := range t.suppliers {
		if sp != nil {
			fn(sp)
		}
	}
}

func (t *Tx) eachMovement(fn func(*entity.Movement)) {
	for _, m := range t.s.movements {
		fn(m)
	}
	for _, m := range t.movements {
		fn(m)
	}
}

// Restricciones.

func (t *Tx) checkItem(it *entity.Item) error {
	var dup bool
	t.eachItem(func(o *entity.Item) {
		if o.ID != it.ID && o.SKU == it.SKU {
			dup = true
		}
	})
	if dup {
		return domain.Conflict("item", "sku", "ya existe un artículo con el SKU "+it.SKU)
	}
	if it.LocationID != nil && t.location(*it.LocationID) == nil {
		return domain.NotFound("location", *it.LocationID)
	}
	if it.SupplierID != nil && t.supplier(*it.SupplierID) == nil {
		return domain.NotFound("supplier", *it.SupplierID)
	}
	return nil
}

func (t *Tx) checkItemDelete(id string) error {
	var used bool
	t.eachMovement(func(m *entity.Movement) {
		if m.ItemID == id {
			used = true
		}
	})
	if used {
		return domain.Conflict("item", "id", "el artículo tiene movimientos registrados y no puede eliminarse")
	}
	return nil
}

func (t *Tx) checkLocation(l *entity.Location) error {
	var dup bool
	t.eachLocation(func(o *entity.Location) {
		if o.ID != l.ID && o.Code == l.Code {
			dup = true
		}
	})
	if dup {
		return domain.Conflict("location", "code", "ya existe una ubicación con el código "+l.Code)
	}
	return nil
}

func (t *Tx) checkLocationDelete(id string) error {
	var used bool
	t.eachItem(func(it *entity.Item) {
		if strPtrEq(it.LocationID, id) {
			used = true
		}
	})
	if used {
		return domain.Conflict("location", "id", "la ubicación tiene artículos asignados; reubíquelos primero")
	}
	return nil
}

func (t *Tx) checkSupplier(sp *entity.Supplier) error {
	if sp.TaxID == "" {
		return nil
	}
	var dup bool
	t.eachSupplier(func(o *entity.Supplier) {
		if o.ID != sp.ID && o.TaxID == sp.TaxID {
			dup = true
		}
	})
	if dup {
		return domain.Conflict("supplier", "tax_id", "ya existe un proveedor con el NIT "+sp.TaxID)
	}
	return nil
}

func (t *Tx) checkSupplierDelete(id string) error {
	var used bool
	t.eachItem(func(it *entity.Item) {
		if strPtrEq(it.SupplierID, id) {
			used = true
		}
	})
	if used {
		return domain.Conflict("supplier", "id", "el proveedor tiene artículos asociados; reasígnelos primero")
	}
	return nil
}

func (t *Tx) checkMovement(m *entity.Movement) error {
	if t.item(m.ItemID) == nil {
		return domain.NotFound("item", m.ItemID)
	}
	return nil
}
