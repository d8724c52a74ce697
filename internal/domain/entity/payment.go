package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago.
const (
	PaymentMethodCash     = "Efectivo"
	PaymentMethodCard     = "Tarjeta"
	PaymentMethodTransfer = "Transferencia"
	PaymentMethodOther    = "Otro"
)

// ValidPaymentMethod reporta si m es uno de los métodos aceptados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// Payment representa un pago de un cliente.
type Payment struct {
	ID           int64
	ClientID     int64
	MembershipID *int64 // membresía vigente al registrar el pago (referencia débil)
	Date         time.Time
	Amount       decimal.Decimal
	Method       string
	Concept      string

	ClientName  string
	ClientPhone string
}
