package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/replenishment"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ImportParser convierte una planilla subida en filas de importación.
type ImportParser func(r io.Reader) ([]inventory.ImportRow, error)

// MovementHandler registro de movimientos, cargas masivas, conteos e importaciones (protegido).
type MovementHandler struct {
	ledger        *inventory.LedgerUseCase
	replenishment *replenishment.UseCase
	parse         ImportParser
	log           *logger.Logger
}

// NewMovementHandler construye el handler. replenishment y parse pueden ser nil.
func NewMovementHandler(ledger *inventory.LedgerUseCase, repl *replenishment.UseCase, parse ImportParser, log *logger.Logger) *MovementHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &MovementHandler{ledger: ledger, replenishment: repl, parse: parse, log: log}
}

// Record godoc
// @Summary      Registrar movimiento
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MovementRequest  true  "item_id, type, quantity; cost_per_unit opcional en IN (si falta se usa el último precio de compra)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.ledger.RecordMovement(c.Context(), scope, in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// Bulk godoc
// @Summary      Carga masiva de movimientos
// @Description  Todo o nada: si una línea falla no se registra ninguna.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.BulkMovementRequest  true  "entries"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/bulk [post]
func (h *MovementHandler) Bulk(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.BulkMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	movs, err := h.ledger.RecordMovementsBulk(c.Context(), scope, in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementsFromEntities(movs))
}

// Count godoc
// @Summary      Conciliar conteo físico
// @Description  Genera un ADJUSTMENT por cada ítem con diferencia. Si la política del tenant
//
//	lo indica, genera además la lista de compras post-inventario.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CountRequest  true  "lines"
// @Success      200   {object}  dto.CountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/counts [post]
func (h *MovementHandler) Count(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	movs, err := h.ledger.ReconcileCount(c.Context(), scope, in.ToLines())
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.CountResponse{Adjustments: dto.MovementsFromEntities(movs)}
	if h.replenishment != nil {
		// Los ajustes ya quedaron registrados; un fallo aquí solo se reporta en el log.
		list, err := h.replenishment.OnInventoryCounted(c.Context(), scope)
		if err != nil {
			h.log.ForTenant(scope.TenantID).Error().Err(err).Msg("lista post-inventario")
		}
		resp.PurchaseList = dto.PurchaseListFromEntity(list)
	}
	return c.JSON(resp)
}

// Import godoc
// @Summary      Importar movimientos desde planilla XLSX
// @Tags         movements
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "planilla .xlsx"
// @Success      201   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/import [post]
func (h *MovementHandler) Import(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	if h.parse == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "importación no disponible"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return badBody(c)
	}
	defer f.Close()

	rows, err := h.parse(f)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.ledger.ImportMovements(c.Context(), scope, rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ImportResponse{
		Movements:    dto.MovementsFromEntities(res.Movements),
		CreatedItems: dto.ItemsFromEntities(res.CreatedItems),
	})
}
