package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/inventario-ledger/internal/application/alert"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/replenishment"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Items              *inventory.ItemUseCase
	Ledger             *inventory.LedgerUseCase
	Batches            *inventory.BatchUseCase
	Replenishment      *replenishment.UseCase
	Alerts             *alert.Emitter
	ImportParser       ImportParser
	Requests           RequestObserver // opcional
	MetricsHandler     nethttp.Handler // opcional: expuesto en /metrics
	Log                *logger.Logger
	JWTSecret          string
	ExpiringWithinDays int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Requests != nil {
		app.Use(RequestMetrics(deps.Requests))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole()
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	buyerRoles := RequireRole(jwt.RoleAdmin, jwt.RoleComprador)
	receiveRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleComprador)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Items
	itemHandler := NewItemHandler(deps.Items, deps.Ledger, deps.Batches)
	items := api.Group("/items")
	items.Get("/", anyRole, itemHandler.List)
	items.Post("/", stockRoles, itemHandler.Create)
	items.Get("/:id", anyRole, itemHandler.GetByID)
	items.Patch("/:id", stockRoles, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Deactivate)
	items.Get("/:id/movements", anyRole, itemHandler.Movements)
	items.Get("/:id/batches", anyRole, itemHandler.Batches)

	// Ledger
	movementHandler := NewMovementHandler(deps.Ledger, deps.Replenishment, deps.ImportParser, deps.Log)
	movements := api.Group("/movements")
	movements.Post("/", stockRoles, movementHandler.Record)
	movements.Post("/bulk", stockRoles, movementHandler.Bulk)
	movements.Post("/import", stockRoles, movementHandler.Import)
	api.Post("/counts", stockRoles, movementHandler.Count)

	// Lotes y alertas
	batchHandler := NewBatchHandler(deps.Batches, deps.Alerts, deps.ExpiringWithinDays)
	api.Get("/batches/expiring", anyRole, batchHandler.Expiring)
	if deps.Alerts != nil {
		api.Post("/alerts/expiring/scan", stockRoles, batchHandler.ScanExpiring)
	}

	if deps.Replenishment == nil {
		return
	}
	replHandler := NewReplenishmentHandler(deps.Replenishment)

	lists := api.Group("/purchase-lists")
	lists.Post("/", buyerRoles, replHandler.GeneratePurchaseList)
	lists.Get("/", anyRole, replHandler.ListPurchaseLists)
	lists.Post("/items/:itemId/confirm", receiveRoles, replHandler.ConfirmItem)
	lists.Post("/items/:itemId/cancel", buyerRoles, replHandler.CancelItem)
	lists.Get("/:id", anyRole, replHandler.GetPurchaseList)
	lists.Get("/:id/export", anyRole, replHandler.ExportPurchaseList)

	suggestions := api.Group("/suggestions")
	suggestions.Get("/", anyRole, replHandler.ListSuggestions)
	suggestions.Post("/generate", buyerRoles, replHandler.GenerateSuggestions)
	suggestions.Post("/:id/decision", buyerRoles, replHandler.DecideSuggestion)

	repl := api.Group("/replenishment")
	repl.Get("/config", anyRole, replHandler.GetConfig)
	repl.Put("/config", adminOnly, replHandler.UpdateConfig)
	repl.Post("/triggers/run", buyerRoles, replHandler.RunTriggers)
}
