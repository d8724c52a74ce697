package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	appanalytics "github.com/jhoicas/kyogym/internal/application/analytics"
	"github.com/jhoicas/kyogym/internal/application/billing"
	"github.com/jhoicas/kyogym/internal/application/export"
	"github.com/jhoicas/kyogym/internal/application/inventory"
	"github.com/jhoicas/kyogym/internal/application/registry"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para registrar las rutas.
type RouterDeps struct {
	ClientUC     *registry.ClientUseCase
	MembershipUC *registry.MembershipUseCase
	PaymentUC    *registry.PaymentUseCase
	LedgerUC     *inventory.LedgerUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	ReceiptUC    *billing.ReceiptUseCase
	ExportUC     *export.SnapshotUseCase
	Logger       zerolog.Logger
	Observer     RequestObserver
	Metrics      http.Handler // nil = sin /metrics
}

// Router registra las rutas en la app Fiber.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(LoggingMiddleware(deps.Logger, deps.Observer))

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	clientHandler := NewClientHandler(deps.ClientUC, deps.MembershipUC, deps.PaymentUC)
	clients := api.Group("/clients")
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/phone-check", clientHandler.CheckPhone)
	clients.Get("/count-by-sex", clientHandler.CountBySex)
	clients.Get("/:id", clientHandler.Get)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Deactivate)
	clients.Get("/:id/memberships/active", clientHandler.ActiveMembership)
	clients.Get("/:id/payments", clientHandler.Payments)

	membershipHandler := NewMembershipHandler(deps.MembershipUC, deps.ReceiptUC)
	memberships := api.Group("/memberships")
	memberships.Post("/", membershipHandler.Create)
	memberships.Post("/enroll", membershipHandler.Enroll)
	memberships.Post("/renew", membershipHandler.Renew)
	memberships.Get("/", membershipHandler.List)
	memberships.Get("/expiring", membershipHandler.Expiring)
	memberships.Get("/counts", membershipHandler.Counts)
	memberships.Get("/:id", membershipHandler.Get)
	memberships.Put("/:id", membershipHandler.Update)
	memberships.Delete("/:id", membershipHandler.Delete)
	memberships.Get("/:id/receipt", membershipHandler.Receipt)

	paymentHandler := NewPaymentHandler(deps.PaymentUC, deps.ReceiptUC)
	payments := api.Group("/payments")
	payments.Post("/", paymentHandler.Create)
	payments.Get("/", paymentHandler.List)
	payments.Get("/latest", paymentHandler.Latest)
	payments.Get("/month", paymentHandler.Month)
	payments.Get("/month-total", paymentHandler.MonthTotal)
	payments.Get("/:id", paymentHandler.Get)
	payments.Put("/:id", paymentHandler.Update)
	payments.Delete("/:id", paymentHandler.Delete)
	payments.Get("/:id/receipt", paymentHandler.Receipt)

	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inv := api.Group("/inventory")
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/value", inventoryHandler.Value)
	inv.Get("/restock-suggestions", inventoryHandler.RestockSuggestions)
	items := inv.Group("/items")
	items.Post("/", inventoryHandler.CreateItem)
	items.Get("/", inventoryHandler.ListItems)
	items.Get("/:id", inventoryHandler.GetItem)
	items.Put("/:id", inventoryHandler.UpdateItem)
	items.Delete("/:id", inventoryHandler.DeleteItem)
	items.Post("/:id/sell", inventoryHandler.Sell)
	items.Post("/:id/restock", inventoryHandler.Restock)
	items.Get("/:id/movements", inventoryHandler.Movements)
	items.Get("/:id/audit", inventoryHandler.Audit)

	if deps.DashboardUC != nil {
		dashboardHandler := NewDashboardHandler(deps.DashboardUC)
		api.Get("/dashboard/summary", dashboardHandler.GetSummary)
	}

	if deps.ExportUC != nil {
		exportHandler := NewExportHandler(deps.ExportUC)
		api.Get("/export/snapshot", exportHandler.Snapshot)
	}
}
