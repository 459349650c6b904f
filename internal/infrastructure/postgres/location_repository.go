package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func locationWriteError(err error, l *entity.Location, op string) error {
	switch constraintName(err) {
	case "locations_code_key":
		return domain.Conflict("location", "code", "ya existe una ubicación con el código "+l.Code)
	case "locations_pkey":
		return domain.Conflict("location", "id", "ya existe una ubicación con el id "+l.ID)
	}
	return fmt.Errorf("%s location: %w", op, err)
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	query := `
		INSERT INTO locations (id, name, address, code, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		location.ID, location.Name, location.Address, location.Code, string(location.Type), location.CreatedAt,
	)
	if err != nil {
		return locationWriteError(err, location, "insert")
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT id, name, address, code, type, created_at FROM locations WHERE id = $1`, id)
}

// GetByCode obtiene una ubicación por su código.
func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT id, name, address, code, type, created_at FROM locations WHERE code = $1`, code)
}

func (r *LocationRepo) getOne(ctx context.Context, query string, arg any) (*entity.Location, error) {
	var l entity.Location
	var typ string
	err := r.q.QueryRow(ctx, query, arg).Scan(&l.ID, &l.Name, &l.Address, &l.Code, &typ, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	l.Type = entity.LocationType(typ)
	return &l, nil
}

// Update actualiza una ubicación existente.
func (r *LocationRepo) Update(ctx context.Context, location *entity.Location) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE locations SET name = $2, address = $3, code = $4, type = $5 WHERE id = $1`,
		location.ID, location.Name, location.Address, location.Code, string(location.Type),
	)
	if err != nil {
		return locationWriteError(err, location, "update")
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("location", location.ID)
	}
	return nil
}

// Delete elimina una ubicación. Si algún artículo sigue ubicado allí la FK lo impide.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("location", "id", "la ubicación tiene artículos asignados; reubíquelos primero")
		}
		return fmt.Errorf("delete location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("location", id)
	}
	return nil
}

// List lista ubicaciones por código con paginación (limit 0 = todas).
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, address, code, type, created_at FROM locations ORDER BY code LIMIT $1 OFFSET $2`,
		limitArg(limit), offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		var typ string
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Code, &typ, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		l.Type = entity.LocationType(typ)
		list = append(list, &l)
	}
	return list, rows.Err()
}
