package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/replenishment"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReplenishmentHandler listas de compras, sugerencias y política de reposición (protegido).
type ReplenishmentHandler struct {
	uc *replenishment.UseCase
}

// NewReplenishmentHandler construye el handler.
func NewReplenishmentHandler(uc *replenishment.UseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{uc: uc}
}

// GeneratePurchaseList godoc
// @Summary      Generar lista de compras
// @Description  Incluye los ítems activos con stock bajo su punto de reorden efectivo.
//
//	Responde 204 si ningún ítem califica.
//
// @Tags         purchase-lists
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.GeneratePurchaseListRequest  false  "trigger_type, description"
// @Success      201   {object}  dto.PurchaseListResponse
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-lists [post]
func (h *ReplenishmentHandler) GeneratePurchaseList(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.GeneratePurchaseListRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if in.TriggerType == "" {
		in.TriggerType = entity.TriggerManual
	}
	list, err := h.uc.GeneratePurchaseList(c.Context(), scope, in.TriggerType, in.Description)
	if err != nil {
		return writeError(c, err)
	}
	if list == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseListFromEntity(list))
}

// ListPurchaseLists godoc
// @Summary      Listar listas de compras
// @Tags         purchase-lists
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDENTE | EM_ANDAMENTO | CONCLUIDA"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.PurchaseListResponse
// @Router       /api/purchase-lists [get]
func (h *ReplenishmentHandler) ListPurchaseLists(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	lists, err := h.uc.ListPurchaseLists(c.Context(), scope, repository.PurchaseListFilter{
		Status: c.Query("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PurchaseListsFromEntities(lists))
}

// GetPurchaseList godoc
// @Summary      Obtener lista de compras
// @Tags         purchase-lists
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la lista"
// @Success      200  {object}  dto.PurchaseListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-lists/{id} [get]
func (h *ReplenishmentHandler) GetPurchaseList(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.uc.GetPurchaseList(c.Context(), scope, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PurchaseListFromEntity(list))
}

// ExportPurchaseList godoc
// @Summary      Exportar lista de compras
// @Tags         purchase-lists
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id      path   string  true   "ID de la lista"
// @Param        format  query  string  false  "pdf | xlsx (por defecto pdf)"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-lists/{id}/export [get]
func (h *ReplenishmentHandler) ExportPurchaseList(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	doc, err := h.uc.ExportPurchaseList(c.Context(), scope, c.Params("id"), c.Query("format", "pdf"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	return c.Send(doc.Data)
}

// ConfirmItem godoc
// @Summary      Confirmar llegada de un ítem de la lista
// @Description  Registra exactamente un IN con referencia a la lista. Un ítem ya llegado devuelve 409.
// @Tags         purchase-lists
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path      string                     true  "ID del ítem de la lista"
// @Param        body    body      dto.ConfirmArrivalRequest  true  "quantity, purchase_price"
// @Success      200     {object}  dto.ConfirmationResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/purchase-lists/items/{itemId}/confirm [post]
func (h *ReplenishmentHandler) ConfirmItem(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.ConfirmArrivalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.ConfirmItemArrival(c.Context(), scope, c.Params("itemId"), in.Quantity, in.PurchasePrice)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConfirmationFromResult(res))
}

// CancelItem godoc
// @Summary      Cancelar un ítem de la lista
// @Tags         purchase-lists
// @Security     Bearer
// @Produce      json
// @Param        itemId  path      string  true  "ID del ítem de la lista"
// @Success      200     {object}  dto.PurchaseListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/purchase-lists/items/{itemId}/cancel [post]
func (h *ReplenishmentHandler) CancelItem(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.uc.CancelItem(c.Context(), scope, c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PurchaseListFromEntity(list))
}

// GenerateSuggestions godoc
// @Summary      Regenerar sugerencias de compra
// @Description  Reemplaza las sugerencias pendientes del tenant; las ya decididas se conservan.
// @Tags         suggestions
// @Security     Bearer
// @Produce      json
// @Success      201  {array}   dto.SuggestionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/suggestions/generate [post]
func (h *ReplenishmentHandler) GenerateSuggestions(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	ss, err := h.uc.GenerateSuggestions(c.Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuggestionsFromEntities(ss))
}

// ListSuggestions godoc
// @Summary      Listar sugerencias
// @Tags         suggestions
// @Security     Bearer
// @Produce      json
// @Param        pending  query  bool  false  "Solo pendientes (por defecto true)"
// @Success      200  {array}  dto.SuggestionResponse
// @Router       /api/suggestions [get]
func (h *ReplenishmentHandler) ListSuggestions(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	ss, err := h.uc.ListSuggestions(c.Context(), scope, c.QueryBool("pending", true))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuggestionsFromEntities(ss))
}

// DecideSuggestion godoc
// @Summary      Aceptar o rechazar una sugerencia
// @Tags         suggestions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID de la sugerencia"
// @Param        body  body      dto.DecideSuggestionRequest  true  "accept"
// @Success      200   {object}  dto.SuggestionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/suggestions/{id}/decision [post]
func (h *ReplenishmentHandler) DecideSuggestion(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.DecideSuggestionRequest
	if err := c.BodyParser(&in); err != nil || in.Accept == nil {
		return badBody(c)
	}
	s, err := h.uc.DecideSuggestion(c.Context(), scope, c.Params("id"), *in.Accept)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuggestionFromEntity(s))
}

// GetConfig godoc
// @Summary      Política de reposición del tenant
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReplenishmentConfigResponse
// @Router       /api/replenishment/config [get]
func (h *ReplenishmentHandler) GetConfig(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	cfg, err := h.uc.GetConfig(c.Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReplenishmentConfigFromEntity(cfg))
}

// UpdateConfig godoc
// @Summary      Actualizar política de reposición
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReplenishmentConfigRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.ReplenishmentConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/replenishment/config [put]
func (h *ReplenishmentHandler) UpdateConfig(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.ReplenishmentConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cfg, err := h.uc.UpdateConfig(c.Context(), scope, in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReplenishmentConfigFromEntity(cfg))
}

// RunTriggers godoc
// @Summary      Evaluar disparadores automáticos
// @Description  Stock crítico y programación; lo invoca un scheduler externo.
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PurchaseListResponse
// @Router       /api/replenishment/triggers/run [post]
func (h *ReplenishmentHandler) RunTriggers(c *fiber.Ctx) error {
	scope, ok := scopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	lists, err := h.uc.RunTriggers(c.Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PurchaseListsFromEntities(lists))
}
