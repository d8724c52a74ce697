package dto

import "github.com/shopspring/decimal"

// CreateMembershipRequest body para POST /api/memberships y PUT /api/memberships/:id.
type CreateMembershipRequest struct {
	ClientID  int64         `json:"client_id"`
	Type      string        `json:"type,omitempty"`       // por defecto "Mensual"
	StartDate string        `json:"start_date,omitempty"` // por defecto hoy
	Amount    LenientAmount `json:"amount"`
	PaymentID *int64        `json:"payment_id,omitempty"`
}

// EnrollRequest body para POST /api/memberships/enroll: crea pago + membresía.
type EnrollRequest struct {
	ClientID  int64           `json:"client_id"`
	StartDate string          `json:"start_date,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"` // por defecto "Efectivo"
}

// RenewRequest body para POST /api/memberships/renew.
type RenewRequest struct {
	ClientID int64         `json:"client_id"`
	Amount   LenientAmount `json:"amount"`
}

// MembershipResponse membresía con su estado calculado al momento de la lectura.
type MembershipResponse struct {
	ID             int64           `json:"id"`
	ClientID       int64           `json:"client_id"`
	ClientName     string          `json:"client_name,omitempty"`
	ClientPhone    string          `json:"client_phone,omitempty"`
	Type           string          `json:"type"`
	StartDate      string          `json:"start_date"`
	ExpirationDate string          `json:"expiration_date"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentID      *int64          `json:"payment_id,omitempty"`
	Status         string          `json:"status"`
	DaysRemaining  int             `json:"days_remaining"`
}

// EnrollResponse resultado de la inscripción.
type EnrollResponse struct {
	Membership MembershipResponse `json:"membership"`
	Payment    PaymentResponse    `json:"payment"`
}

// StatusCountResponse conteo de membresías por estado.
type StatusCountResponse struct {
	Active   int `json:"Activa"`
	Expiring int `json:"Por Vencer"`
	Expired  int `json:"Vencida"`
}
