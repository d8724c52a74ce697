package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/kyogym/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de membresías, pagos e inventario.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (memberships, clients_by_sex, month_total,
// latest_payments[5], expiring_soon[10], low_stock, inventory_value, date_label).
// Los estados se calculan al momento de la consulta.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
