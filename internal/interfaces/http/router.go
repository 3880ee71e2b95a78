package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kryonshao/eshop-sub000/internal/application/catalog"
	"github.com/kryonshao/eshop-sub000/internal/application/inventory"
	"github.com/kryonshao/eshop-sub000/internal/application/order"
	"github.com/kryonshao/eshop-sub000/internal/application/webhook"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC  *catalog.UseCase
	LedgerUC   *inventory.LedgerUseCase
	AlertsUC   *inventory.AlertsUseCase
	CheckoutUC *order.CheckoutUseCase
	Transition *order.TransitionUseCase
	OrderQuery *order.QueryUseCase
	WebhookUC  *webhook.UseCase
	JWTSecret  string
	// DefaultWarehouseID bodega por defecto ya resuelta (ID, no código).
	DefaultWarehouseID string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Webhook de pagos (público: autenticado por firma HMAC, no por token)
	webhookHandler := NewWebhookHandler(deps.WebhookUC)
	api.Post("/payment/webhook", webhookHandler.Handle)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de SKUs (protegido; alta y baja solo back-office)
	skus := protected.Group("/skus")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	skus.Post("/resolve", catalogHandler.Resolve)
	skus.Get("/", catalogHandler.List)
	skus.Post("/", RequireRole(RoleAdmin, RoleOperator), catalogHandler.Create)
	skus.Delete("/:id", RequireRole(RoleAdmin), catalogHandler.Deactivate)

	// Inventario (protegido, solo back-office)
	stock := protected.Group("/stock", RequireRole(RoleAdmin, RoleOperator))
	stockHandler := NewStockHandler(deps.LedgerUC, deps.AlertsUC, deps.DefaultWarehouseID)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/movements", stockHandler.Movements)
	stock.Post("/receive", stockHandler.Receive)
	stock.Post("/adjust", stockHandler.Adjust)
	stock.Post("/transfer", stockHandler.Transfer)
	stock.Put("/threshold", stockHandler.SetThreshold)
	stock.Get("/:sku_id", stockHandler.Get)

	// Órdenes (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.CheckoutUC, deps.Transition, deps.OrderQuery, deps.DefaultWarehouseID)
	orders.Post("/", orderHandler.Checkout)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Post("/:id/ship", RequireRole(RoleAdmin, RoleOperator), orderHandler.Ship)
	orders.Post("/:id/deliver", RequireRole(RoleAdmin, RoleOperator), orderHandler.Deliver)
}
