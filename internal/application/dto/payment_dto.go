package dto

import "github.com/shopspring/decimal"

// CreatePaymentRequest body para POST /api/payments y PUT /api/payments/:id.
type CreatePaymentRequest struct {
	ClientID     int64           `json:"client_id"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method,omitempty"` // Efectivo, Tarjeta, Transferencia, Otro
	Date         string          `json:"date,omitempty"`   // por defecto hoy
	Concept      string          `json:"concept,omitempty"`
	MembershipID *int64          `json:"membership_id,omitempty"` // vacío = membresía vigente del cliente
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID           int64           `json:"id"`
	ClientID     int64           `json:"client_id"`
	ClientName   string          `json:"client_name,omitempty"`
	ClientPhone  string          `json:"client_phone,omitempty"`
	MembershipID *int64          `json:"membership_id,omitempty"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Concept      string          `json:"concept,omitempty"`
}

// MonthTotalResponse total de pagos de un mes.
type MonthTotalResponse struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	From  string          `json:"from"`
	To    string          `json:"to"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}
