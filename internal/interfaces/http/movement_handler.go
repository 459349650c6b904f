package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain"
)

// HeaderIdempotencyKey header opcional para reintentos seguros de POST /movements.
const HeaderIdempotencyKey = "Idempotency-Key"

// MovementHandler maneja el registro y la consulta de movimientos.
type MovementHandler struct {
	apply   *inventory.ApplyMovementUseCase
	queries *inventory.MovementQueryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(apply *inventory.ApplyMovementUseCase, queries *inventory.MovementQueryUseCase) *MovementHandler {
	return &MovementHandler{apply: apply, queries: queries}
}

// Apply godoc
// @Summary      Aplicar movimiento de inventario
// @Description  TRANSFER/SHIPMENT restan, RECEIPT/RETURN suman, ADJUSTMENT fija la cantidad absoluta.
// @Description  El artículo queda ubicado en to_location_id. Todo o nada.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                    false  "Clave para reintentos seguros"
// @Param        body             body    dto.ApplyMovementRequest  true   "item_id, type, quantity, to_location_id, from_location_id"
// @Success      201   {object}  dto.ApplyMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.apply.ApplyFromRequest(c.UserContext(), GetUserID(c), c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.queries.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementFromEntity(m))
}

// List godoc
// @Summary      Listar movimientos (orden cronológico)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	page.DefaultPage()
	list, err := h.queries.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: dto.MovementsFromEntities(list),
		Page:  &dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// ByItem godoc
// @Summary      Historial de movimientos de un artículo
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      200     {object}  dto.MovementListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/movements/item/{itemId} [get]
func (h *MovementHandler) ByItem(c *fiber.Ctx) error {
	list, err := h.queries.ListByItem(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{Items: dto.MovementsFromEntities(list)})
}

// ByLocation godoc
// @Summary      Movimientos con origen o destino en una ubicación
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        locationId  path  string  true  "ID de la ubicación"
// @Success      200         {object}  dto.MovementListResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/movements/location/{locationId} [get]
func (h *MovementHandler) ByLocation(c *fiber.Ctx) error {
	list, err := h.queries.ListByLocation(c.UserContext(), c.Params("locationId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{Items: dto.MovementsFromEntities(list)})
}

// ByDateRange godoc
// @Summary      Movimientos en un rango de fechas (inclusivo)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "RFC3339"
// @Param        end    query  string  true  "RFC3339"
// @Success      200    {object}  dto.MovementListResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/movements/date-range [get]
func (h *MovementHandler) ByDateRange(c *fiber.Ctx) error {
	var violations []domain.FieldViolation
	parse := func(field string) time.Time {
		raw := c.Query(field)
		if raw == "" {
			violations = append(violations, domain.FieldViolation{Field: field, Message: "es obligatorio"})
			return time.Time{}
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			violations = append(violations, domain.FieldViolation{Field: field, Message: "debe tener formato RFC3339"})
		}
		return t
	}
	start, end := parse("start"), parse("end")
	if len(violations) > 0 {
		return writeError(c, domain.InvalidFields(violations))
	}
	list, err := h.queries.ListByDateRange(c.UserContext(), start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{Items: dto.MovementsFromEntities(list)})
}
