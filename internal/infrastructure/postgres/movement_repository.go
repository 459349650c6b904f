package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, item_id, from_location_id, to_location_id, quantity, type, notes, movement_date, performed_by`

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx). Solo inserta y lee.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var typ string
	if err := row.Scan(&m.ID, &m.ItemID, &m.FromLocationID, &m.ToLocationID, &m.Quantity,
		&typ, &m.Notes, &m.MovementDate, &m.PerformedBy); err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	return &m, nil
}

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ItemID, nullable(movement.FromLocationID), movement.ToLocationID,
		movement.Quantity, string(movement.Type), movement.Notes, movement.MovementDate, movement.PerformedBy,
	)
	if err != nil {
		switch constraintName(err) {
		case "movements_item_id_fkey":
			return domain.NotFound("item", movement.ItemID)
		case "movements_pkey":
			return domain.Conflict("movement", "id", "ya existe un movimiento con el id "+movement.ID)
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List todos los movimientos en orden cronológico, paginados (limit 0 = todos).
func (r *MovementRepo) List(ctx context.Context, limit, offset int) ([]*entity.Movement, error) {
	return r.query(ctx,
		`SELECT `+movementColumns+` FROM movements ORDER BY movement_date, seq LIMIT $1 OFFSET $2`,
		limitArg(limit), offset,
	)
}

// ListByItem historial del artículo en orden cronológico; a igual fecha, orden de inserción.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Movement, error) {
	return r.query(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE item_id = $1 ORDER BY movement_date, seq`,
		itemID,
	)
}

// ListByDateRange movimientos con fecha en [start, end].
func (r *MovementRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Movement, error) {
	return r.query(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE movement_date BETWEEN $1 AND $2 ORDER BY movement_date, seq`,
		start, end,
	)
}

// ListByLocation movimientos con origen o destino en la ubicación.
func (r *MovementRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.Movement, error) {
	return r.query(ctx,
		`SELECT `+movementColumns+` FROM movements
		WHERE to_location_id = $1 OR from_location_id = $1
		ORDER BY movement_date, seq`,
		locationID,
	)
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
