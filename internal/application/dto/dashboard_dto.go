package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Todo se calcula al momento de la consulta; la UI la vuelve a pedir periódicamente.
type DashboardSummaryDTO struct {
	Memberships    StatusCountResponse  `json:"memberships"`
	ClientsBySex   map[string]int       `json:"clients_by_sex"`
	MonthTotal     decimal.Decimal      `json:"month_total"`
	DateLabel      string               `json:"date_label"` // ej: "Febrero 2026"
	LatestPayments []PaymentResponse    `json:"latest_payments"`
	ExpiringSoon   []MembershipResponse `json:"expiring_soon"`
	LowStock       []ItemResponse       `json:"low_stock"`
	InventoryValue decimal.Decimal      `json:"inventory_value"`
}
