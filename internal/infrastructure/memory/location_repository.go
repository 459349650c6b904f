package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación en memoria de LocationRepository.
type LocationRepo struct {
	s  *Store
	tx *Tx
}

func cloneLocation(l *entity.Location) *entity.Location {
	c := *l
	return &c
}

func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		if t.location(location.ID) != nil {
			return domain.Conflict("location", "id", "ya existe una ubicación con el id "+location.ID)
		}
		if err := t.checkLocation(location); err != nil {
			return err
		}
		t.locations[location.ID] = cloneLocation(location)
		return nil
	})
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Location
	r.s.view(r.tx, func(t *Tx) {
		if l := t.location(id); l != nil {
			out = cloneLocation(l)
		}
	})
	return out, nil
}

func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Location
	r.s.view(r.tx, func(t *Tx) {
		t.eachLocation(func(l *entity.Location) {
			if l.Code == code {
				out = cloneLocation(l)
			}
		})
	})
	return out, nil
}

func (r *LocationRepo) Update(ctx context.Context, location *entity.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		if t.location(location.ID) == nil {
			return domain.NotFound("location", location.ID)
		}
		if err := t.checkLocation(location); err != nil {
			return err
		}
		t.locations[location.ID] = cloneLocation(location)
		return nil
	})
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.write(r.tx, func(t *Tx) error {
		if t.location(id) == nil {
			return domain.NotFound("location", id)
		}
		if err := t.checkLocationDelete(id); err != nil {
			return err
		}
		t.locations[id] = nil
		return nil
	})
}

func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []*entity.Location
	r.s.view(r.tx, func(t *Tx) {
		t.eachLocation(func(l *entity.Location) { list = append(list, cloneLocation(l)) })
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return paginate(list, limit, offset), nil
}
