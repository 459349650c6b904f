package memory

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository (con o sin tx).
type ItemRepo struct {
	s  *Store
	tx *Tx
}

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		if t.item(item.ID) != nil {
			return domain.Conflict("item", "id", "ya existe un artículo con el id "+item.ID)
		}
		if err := t.checkItem(item); err != nil {
			return err
		}
		t.items[item.ID] = item.Clone()
		return nil
	})
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Item
	r.s.view(r.tx, func(t *Tx) {
		if it := t.item(id); it != nil {
			out = it.Clone()
		}
	})
	return out, nil
}

// GetByIDForUpdate bloquea el artículo hasta que termine la tx. Fuera de tx equivale a GetByID.
func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	if r.tx != nil {
		if err := r.tx.lockItem(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Item
	r.s.view(r.tx, func(t *Tx) {
		t.eachItem(func(it *entity.Item) {
			if it.SKU == sku {
				out = it.Clone()
			}
		})
	})
	return out, nil
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		if t.item(item.ID) == nil {
			return domain.NotFound("item", item.ID)
		}
		if err := t.checkItem(item); err != nil {
			return err
		}
		t.items[item.ID] = item.Clone()
		return nil
	})
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		if t.item(id) == nil {
			return domain.NotFound("item", id)
		}
		if err := t.checkItemDelete(id); err != nil {
			return err
		}
		t.items[id] = nil
		return nil
	})
}

func (r *ItemRepo) filter(ctx context.Context, keep func(*entity.Item) bool) ([]*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []*entity.Item
	r.s.view(r.tx, func(t *Tx) {
		t.eachItem(func(it *entity.Item) {
			if keep(it) {
				list = append(list, it.Clone())
			}
		})
	})
	sortItems(list)
	return list, nil
}

func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	list, err := r.filter(ctx, func(*entity.Item) bool { return true })
	if err != nil {
		return nil, err
	}
	return paginate(list, limit, offset), nil
}

func (r *ItemRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.Item, error) {
	return r.filter(ctx, func(it *entity.Item) bool { return strPtrEq(it.LocationID, locationID) })
}

func (r *ItemRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Item, error) {
	return r.filter(ctx, func(it *entity.Item) bool { return strPtrEq(it.SupplierID, supplierID) })
}

func (r *ItemRepo) ListByStatus(ctx context.Context, status entity.ItemStatus) ([]*entity.Item, error) {
	return r.filter(ctx, func(it *entity.Item) bool { return it.Status == status })
}

func (r *ItemRepo) ListBelowQuantity(ctx context.Context, threshold int64) ([]*entity.Item, error) {
	return r.filter(ctx, func(it *entity.Item) bool { return it.Quantity < threshold })
}

// SearchByName coincidencia por subcadena sin distinguir mayúsculas (plegado Unicode).
func (r *ItemRepo) SearchByName(ctx context.Context, keyword string) ([]*entity.Item, error) {
	needle := cases.Fold().String(keyword)
	return r.filter(ctx, func(it *entity.Item) bool {
		return strings.Contains(cases.Fold().String(it.Name), needle)
	})
}

func (r *ItemRepo) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	list, err := r.ListByLocation(ctx, locationID)
	return int64(len(list)), err
}

func (r *ItemRepo) CountBySupplier(ctx context.Context, supplierID string) (int64, error) {
	list, err := r.ListBySupplier(ctx, supplierID)
	return int64(len(list)), err
}
