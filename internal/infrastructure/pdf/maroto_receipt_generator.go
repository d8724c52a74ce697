// Package pdf genera los recibos del gimnasio como ticket de 80 mm.
//
// Layout del ticket:
//
//	┌──────────────────────────┐
//	│  NOMBRE DEL GIMNASIO     │
//	│  Dirección / Tel / RFC   │
//	│  ──────────────────────  │
//	│  Folio        Fecha      │
//	│  Cliente + teléfono      │
//	│  ──────────────────────  │
//	│  Concepto        Importe │
//	│  ──────────────────────  │
//	│  TOTAL / Método de pago  │
//	│  Notas + QR del folio    │
//	└──────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kyogym/internal/application/billing"
)

// Medidas del ticket en milímetros.
const (
	ticketWidth  = 80
	ticketHeight = 200
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 20, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ billing.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa billing.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF genera el ticket y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(_ context.Context, r *billing.Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(ticketWidth, ticketHeight).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Recibo "+r.Folio, true).
		WithAuthor(r.Gym.GymName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(r)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(folioRow(r), clientRow(r))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, l := range r.Lines {
		m.AddRows(lineRow(l))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r))
	if r.Method != "" {
		m.AddRows(smallRow("Método de pago: " + r.Method))
	}
	for _, n := range r.Notes {
		m.AddRows(smallRow(n))
	}
	m.AddRows(row.New(3))
	m.AddRows(row.New(24).Add(col.New(12).Add(code.NewQr(r.Folio, props.Rect{Percent: 90, Center: true}))))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("¡Gracias por entrenar con nosotros!", props.Text{Size: 7, Align: align.Center, Top: 1, Color: colorGray}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRows(r *billing.Receipt) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New(strings.ToUpper(r.Gym.GymName), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: colorPrimary, Top: 1,
		}))),
	}
	var contact []string
	if r.Gym.Address != "" {
		contact = append(contact, r.Gym.Address)
	}
	if r.Gym.Phone != "" {
		contact = append(contact, "Tel: "+r.Gym.Phone)
	}
	if r.Gym.Email != "" {
		contact = append(contact, r.Gym.Email)
	}
	if r.Gym.TaxID != "" {
		contact = append(contact, "RFC: "+r.Gym.TaxID)
	}
	for _, c := range contact {
		rows = append(rows, row.New(4).Add(col.New(12).Add(text.New(c, props.Text{
			Size: 7, Align: align.Center, Color: colorGray,
		}))))
	}
	return rows
}

func folioRow(r *billing.Receipt) core.Row {
	return row.New(6).Add(
		col.New(7).Add(text.New("Folio: "+r.Folio, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
		col.New(5).Add(text.New(r.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 1})),
	)
}

func clientRow(r *billing.Receipt) core.Row {
	client := nonEmpty(r.ClientName, "—")
	if r.ClientPhone != "" {
		client += " (" + r.ClientPhone + ")"
	}
	return row.New(6).Add(col.New(12).Add(
		text.New("Cliente: "+client, props.Text{Size: 8, Top: 1}),
	))
}

func lineRow(l billing.ReceiptLine) core.Row {
	return row.New(6).Add(
		col.New(8).Add(text.New(l.Description, props.Text{Size: 8, Top: 1})),
		col.New(4).Add(text.New(formatMoney(l.Amount), props.Text{Size: 8, Align: align.Right, Top: 1})),
	)
}

func totalRow(r *billing.Receipt) core.Row {
	return row.New(8).Add(
		col.New(6).Add(text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 10, Top: 1, Color: colorPrimary})),
		col.New(6).Add(text.New(formatMoney(r.Total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1, Color: colorPrimary,
		})),
	)
}

func smallRow(s string) core.Row {
	return row.New(5).Add(col.New(12).Add(text.New(s, props.Text{Size: 7, Top: 1, Color: colorGray})))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con separador de miles y dos decimales.
// Ej: 25000 → "$25,000.00", 1234.5 → "$1,234.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "." + frac
}
