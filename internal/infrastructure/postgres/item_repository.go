package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, description, sku, quantity, unit_price, location_id, supplier_id, status, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var status string
	if err := row.Scan(
		&it.ID, &it.Name, &it.Description, &it.SKU, &it.Quantity, &it.UnitPrice,
		&it.LocationID, &it.SupplierID, &status, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	it.Status = entity.ItemStatus(status)
	return &it, nil
}

// itemWriteError traduce violaciones de constraints a errores de dominio.
func itemWriteError(err error, item *entity.Item, op string) error {
	switch constraintName(err) {
	case "items_sku_key":
		return domain.Conflict("item", "sku", "ya existe un artículo con el SKU "+item.SKU)
	case "items_pkey":
		return domain.Conflict("item", "id", "ya existe un artículo con el id "+item.ID)
	case "items_location_id_fkey":
		if item.LocationID != nil {
			return domain.NotFound("location", *item.LocationID)
		}
	case "items_supplier_id_fkey":
		if item.SupplierID != nil {
			return domain.NotFound("supplier", *item.SupplierID)
		}
	}
	return fmt.Errorf("%s item: %w", op, err)
}

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.SKU, item.Quantity, item.UnitPrice,
		nullable(item.LocationID), nullable(item.SupplierID), string(item.Status), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return itemWriteError(err, item, "insert")
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el artículo y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// GetBySKU obtiene un artículo por SKU.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Update reescribe todas las columnas mutables, incluida la cantidad (el motor la cambia vía movimientos).
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, description = $3, sku = $4, quantity = $5, unit_price = $6,
			location_id = $7, supplier_id = $8, status = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.SKU, item.Quantity, item.UnitPrice,
		nullable(item.LocationID), nullable(item.SupplierID), string(item.Status), item.UpdatedAt,
	)
	if err != nil {
		return itemWriteError(err, item, "update")
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("item", item.ID)
	}
	return nil
}

// Delete elimina un artículo. Con movimientos registrados la FK lo impide.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("item", "id", "el artículo tiene movimientos registrados y no puede eliminarse")
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("item", id)
	}
	return nil
}

func (r *ItemRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY name, id`
	return r.query(ctx, query, args...)
}

func (r *ItemRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// List lista artículos por nombre con paginación (limit 0 = todos).
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	return r.query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name, id LIMIT $1 OFFSET $2`, limitArg(limit), offset)
}

func (r *ItemRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.Item, error) {
	return r.list(ctx, `location_id = $1`, locationID)
}

func (r *ItemRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Item, error) {
	return r.list(ctx, `supplier_id = $1`, supplierID)
}

func (r *ItemRepo) ListByStatus(ctx context.Context, status entity.ItemStatus) ([]*entity.Item, error) {
	return r.list(ctx, `status = $1`, string(status))
}

func (r *ItemRepo) ListBelowQuantity(ctx context.Context, threshold int64) ([]*entity.Item, error) {
	return r.list(ctx, `quantity < $1`, threshold)
}

// SearchByName coincidencia por subcadena sin distinguir mayúsculas. Los comodines del usuario se escapan.
func (r *ItemRepo) SearchByName(ctx context.Context, keyword string) ([]*entity.Item, error) {
	return r.list(ctx, `name ILIKE $1 ESCAPE '\'`, "%"+escapeLike(keyword)+"%")
}

func (r *ItemRepo) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	return r.count(ctx, `SELECT count(*) FROM items WHERE location_id = $1`, locationID)
}

func (r *ItemRepo) CountBySupplier(ctx context.Context, supplierID string) (int64, error) {
	return r.count(ctx, `SELECT count(*) FROM items WHERE supplier_id = $1`, supplierID)
}

func (r *ItemRepo) count(ctx context.Context, query string, arg any) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
