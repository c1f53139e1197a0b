package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ItemHandler catálogo de ítems y su historial de movimientos (protegido).
type ItemHandler struct {
	items   *inventory.ItemUseCase
	ledger  *inventory.LedgerUseCase
	batches *inventory.BatchUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(items *inventory.ItemUseCase, ledger *inventory.LedgerUseCase, batches *inventory.BatchUseCase) *ItemHandler {
	return &ItemHandler{items: items, ledger: ledger, batches: batches}
}

// Create godoc
// @Summary      Crear ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateItemRequest  true  "name, base_unit, kind, lead_time_days"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := h.items.Create(c.Context(), scope, in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ItemFromEntity(item))
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        category     query  string  false  "Filtrar por categoría"
// @Param        kind         query  string  false  "RAW_MATERIAL | PREPARED"
// @Param        active_only  query  bool    false  "Solo activos"
// @Param        limit        query  int     false  "Límite"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	items, err := h.items.List(c.Context(), scope, repository.ItemFilter{
		Category:   c.Query("category"),
		Kind:       c.Query("kind"),
		ActiveOnly: c.QueryBool("active_only", false),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": dto.ItemsFromEntities(items), "limit": page.Limit, "offset": page.Offset})
}

// GetByID godoc
// @Summary      Obtener ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	item, err := h.items.Get(c.Context(), scope, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// Update godoc
// @Summary      Actualizar configuración del ítem
// @Description  No modifica stock ni costo; esos solo cambian vía movimientos.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del ítem"
// @Param        body  body      dto.UpdateItemRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [patch]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := h.items.UpdateSettings(c.Context(), scope, c.Params("id"), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// Deactivate godoc
// @Summary      Desactivar ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Deactivate(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	item, err := h.items.Deactivate(c.Context(), scope, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// Movements godoc
// @Summary      Historial de movimientos del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        from    query  string  false  "RFC3339"
// @Param        to      query  string  false  "RFC3339"
// @Param        limit   query  int     false  "Límite (máx. 500)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/movements [get]
func (h *ItemHandler) Movements(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	movs, err := h.ledger.ListMovements(c.Context(), scope, c.Params("id"), from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementsFromEntities(movs))
}

// Batches godoc
// @Summary      Lotes del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del ítem"
// @Success      200  {array}   dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/batches [get]
func (h *ItemHandler) Batches(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	batches, err := h.batches.ListByItem(c.Context(), scope, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BatchesFromEntities(batches))
}
