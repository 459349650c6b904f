package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria de MovementRepository. Solo agrega; nunca modifica.
type MovementRepo struct {
	s  *Store
	tx *Tx
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	c := *m
	if m.FromLocationID != nil {
		v := *m.FromLocationID
		c.FromLocationID = &v
	}
	return &c
}

func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		var dup bool
		t.eachMovement(func(m *entity.Movement) {
			if m.ID == movement.ID {
				dup = true
			}
		})
		if dup {
			return domain.Conflict("movement", "id", "ya existe un movimiento con el id "+movement.ID)
		}
		if err := t.checkMovement(movement); err != nil {
			return err
		}
		t.movements = append(t.movements, cloneMovement(movement))
		return nil
	})
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Movement
	r.s.view(r.tx, func(t *Tx) {
		t.eachMovement(func(m *entity.Movement) {
			if m.ID == id {
				out = cloneMovement(m)
			}
		})
	})
	return out, nil
}

// filter devuelve en orden cronológico; a igual fecha se conserva el orden de inserción.
func (r *MovementRepo) filter(ctx context.Context, keep func(*entity.Movement) bool) ([]*entity.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []*entity.Movement
	r.s.view(r.tx, func(t *Tx) {
		t.eachMovement(func(m *entity.Movement) {
			if keep(m) {
				list = append(list, cloneMovement(m))
			}
		})
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].MovementDate.Before(list[j].MovementDate) })
	return list, nil
}

func (r *MovementRepo) List(ctx context.Context, limit, offset int) ([]*entity.Movement, error) {
	list, err := r.filter(ctx, func(*entity.Movement) bool { return true })
	if err != nil {
		return nil, err
	}
	return paginate(list, limit, offset), nil
}

func (r *MovementRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Movement, error) {
	return r.filter(ctx, func(m *entity.Movement) bool { return m.ItemID == itemID })
}

func (r *MovementRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Movement, error) {
	return r.filter(ctx, func(m *entity.Movement) bool {
		return !m.MovementDate.Before(start) && !m.MovementDate.After(end)
	})
}

func (r *MovementRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.Movement, error) {
	return r.filter(ctx, func(m *entity.Movement) bool {
		return m.ToLocationID == locationID || strPtrEq(m.FromLocationID, locationID)
	})
}
