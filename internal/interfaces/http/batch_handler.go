package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/alert"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// BatchHandler lotes por vencer y escaneo de alertas (protegido).
type BatchHandler struct {
	batches     *inventory.BatchUseCase
	alerts      *alert.Emitter
	defaultDays int
}

// NewBatchHandler construye el handler; defaultDays se usa cuando no llega within_days.
func NewBatchHandler(batches *inventory.BatchUseCase, alerts *alert.Emitter, defaultDays int) *BatchHandler {
	return &BatchHandler{batches: batches, alerts: alerts, defaultDays: defaultDays}
}

// Expiring godoc
// @Summary      Lotes por vencer
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        within_days  query  int  false  "Horizonte en días"
// @Success      200  {array}   dto.BatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/batches/expiring [get]
func (h *BatchHandler) Expiring(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	batches, err := h.batches.ListExpiringBatches(c.Context(), scope, c.QueryInt("within_days", h.defaultDays))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BatchesFromEntities(batches))
}

// ScanExpiring godoc
// @Summary      Publicar alertas de lotes por vencer
// @Description  Pensado para un scheduler externo; devuelve las alertas emitidas.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        within_days  query  int  false  "Horizonte en días"
// @Success      200  {array}   dto.AlertResponse
// @Router       /api/alerts/expiring/scan [post]
func (h *BatchHandler) ScanExpiring(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	alerts, err := h.alerts.ScanExpiring(c.Context(), scope, c.QueryInt("within_days", h.defaultDays))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AlertsFromEntities(alerts))
}
