// Package billing genera los recibos (folio + PDF) de membresías y pagos.
package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kyogym/internal/domain/entity"
)

// ProfileProvider entrega los datos actuales del gimnasio.
type ProfileProvider interface {
	Profile() entity.GymProfile
}

// ReceiptLine renglón del recibo.
type ReceiptLine struct {
	Description string
	Amount      decimal.Decimal
}

// Receipt datos ya resueltos que necesita el generador de PDF.
type Receipt struct {
	Folio       string
	Date        time.Time
	Gym         entity.GymProfile
	ClientName  string
	ClientPhone string
	Method      string // vacío si no aplica
	Lines       []ReceiptLine
	Total       decimal.Decimal
	Notes       []string // ej. vigencia de la membresía
}

// ReceiptGenerator renderiza un recibo.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, r *Receipt) ([]byte, error)
}
