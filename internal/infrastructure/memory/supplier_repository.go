package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación en memoria de SupplierRepository.
type SupplierRepo struct {
	s  *Store
	tx *Tx
}

func cloneSupplier(sp *entity.Supplier) *entity.Supplier {
	c := *sp
	return &c
}

func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		if t.supplier(supplier.ID) != nil {
			return domain.Conflict("supplier", "id", "ya existe un proveedor con el id "+supplier.ID)
		}
		if err := t.checkSupplier(supplier); err != nil {
			return err
		}
		t.suppliers[supplier.ID] = cloneSupplier(supplier)
		return nil
	})
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Supplier
	r.s.view(r.tx, func(t *Tx) {
		if sp := t.supplier(id); sp != nil {
			out = cloneSupplier(sp)
		}
	})
	return out, nil
}

func (r *SupplierRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Supplier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if taxID == "" {
		return nil, nil
	}
	var out *entity.Supplier
	r.s.view(r.tx, func(t *Tx) {
		t.eachSupplier(func(sp *entity.Supplier) {
			if sp.TaxID == taxID {
				out = cloneSupplier(sp)
			}
		})
	})
	return out, nil
}

func (r *SupplierRepo) Update(ctx context.Context, supplier *entity.Supplier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		if t.supplier(supplier.ID) == nil {
			return domain.NotFound("supplier", supplier.ID)
		}
		if err := t.checkSupplier(supplier); err != nil {
			return err
		}
		t.suppliers[supplier.ID] = cloneSupplier(supplier)
		return nil
	})
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		if t.supplier(id) == nil {
			return domain.NotFound("supplier", id)
		}
		if err := t.checkSupplierDelete(id); err != nil {
			return err
		}
		t.suppliers[id] = nil
		return nil
	})
}

func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []*entity.Supplier
	r.s.view(r.tx, func(t *Tx) {
		t.eachSupplier(func(sp *entity.Supplier) { list = append(list, cloneSupplier(sp)) })
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return paginate(list, limit, offset), nil
}
