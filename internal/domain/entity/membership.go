package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MembershipTypeMonthly es el único tipo que crea la renovación.
const MembershipTypeMonthly = "Mensual"

// Membership representa una membresía. El estado no se persiste: se calcula al leer
// a partir de ExpirationDate (ver paquete domain/membership).
type Membership struct {
	ID             int64
	ClientID       int64
	Type           string
	StartDate      time.Time
	ExpirationDate time.Time // siempre StartDate + 30 días
	Amount         decimal.Decimal
	PaymentID      *int64 // pago que la originó (referencia débil)

	// Datos de solo lectura obtenidos por JOIN con clients.
	ClientName  string
	ClientPhone string
}
