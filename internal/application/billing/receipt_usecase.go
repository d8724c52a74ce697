package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/kyogym/internal/domain"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

// DefaultFolioFormat formato cuando la configuración no define uno.
const DefaultFolioFormat = "FAC-{YYYY}-{NNNN}"

// ReceiptUseCase arma y renderiza recibos de membresías y pagos.
type ReceiptUseCase struct {
	membershipRepo repository.MembershipRepository
	paymentRepo    repository.PaymentRepository
	profiles       ProfileProvider
	generator      ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	membershipRepo repository.MembershipRepository,
	paymentRepo repository.PaymentRepository,
	profiles ProfileProvider,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		profiles:       profiles,
		generator:      generator,
	}
}

// FormatFolio arma el folio: {YYYY} año, {MM} mes, {NNNN} número con ceros a la izquierda.
func FormatFolio(format string, date time.Time, number int64) string {
	if strings.TrimSpace(format) == "" {
		format = DefaultFolioFormat
	}
	r := strings.NewReplacer(
		"{YYYY}", fmt.Sprintf("%04d", date.Year()),
		"{MM}", fmt.Sprintf("%02d", int(date.Month())),
		"{NNNN}", fmt.Sprintf("%04d", number),
	)
	return r.Replace(format)
}

// MembershipReceipt genera el recibo de una membresía.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la membresía no existe.
func (uc *ReceiptUseCase) MembershipReceipt(ctx context.Context, id int64) ([]byte, string, error) {
	m, err := uc.membershipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener membresía: %w", err)
	}
	if m == nil {
		return nil, "", domain.ErrNotFound
	}
	gym := uc.profiles.Profile()
	r := &Receipt{
		Folio:       FormatFolio(gym.FolioFormat, m.StartDate, m.ID),
		Date:        m.StartDate,
		Gym:         gym,
		ClientName:  m.ClientName,
		ClientPhone: m.ClientPhone,
		Lines:       []ReceiptLine{{Description: "Membresía " + m.Type, Amount: m.Amount}},
		Total:       m.Amount,
		Notes: []string{
			"Vigencia: " + m.StartDate.Format("02/01/2006") + " al " + m.ExpirationDate.Format("02/01/2006"),
		},
	}
	if m.PaymentID != nil {
		p, err := uc.paymentRepo.GetByID(ctx, *m.PaymentID)
		if err != nil {
			return nil, "", fmt.Errorf("recibo: obtener pago: %w", err)
		}
		if p != nil {
			r.Method = p.Method
		}
	}
	return uc.render(ctx, r)
}

// PaymentReceipt genera el recibo de un pago.
func (uc *ReceiptUseCase) PaymentReceipt(ctx context.Context, id int64) ([]byte, string, error) {
	p, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener pago: %w", err)
	}
	if p == nil {
		return nil, "", domain.ErrNotFound
	}
	gym := uc.profiles.Profile()
	concept := p.Concept
	if concept == "" {
		concept = "Pago"
	}
	r := &Receipt{
		Folio:       FormatFolio(gym.FolioFormat, p.Date, p.ID),
		Date:        p.Date,
		Gym:         gym,
		ClientName:  p.ClientName,
		ClientPhone: p.ClientPhone,
		Method:      p.Method,
		Lines:       []ReceiptLine{{Description: concept, Amount: p.Amount}},
		Total:       p.Amount,
	}
	if p.MembershipID != nil {
		m, err := uc.membershipRepo.GetByID(ctx, *p.MembershipID)
		if err != nil {
			return nil, "", fmt.Errorf("recibo: obtener membresía: %w", err)
		}
		if m != nil {
			r.Notes = append(r.Notes, "Membresía "+m.Type+" vence el "+m.ExpirationDate.Format("02/01/2006"))
		}
	}
	return uc.render(ctx, r)
}

func (uc *ReceiptUseCase) render(ctx context.Context, r *Receipt) ([]byte, string, error) {
	pdf, err := uc.generator.GenerateReceiptPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generar PDF: %w", err)
	}
	return pdf, r.Folio + ".pdf", nil
}
