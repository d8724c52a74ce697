// Package export vuelca el contenido del almacén a un libro de cálculo (respaldo de solo lectura).
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kyogym/internal/domain/membership"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

// Sheet hoja del libro: encabezado y filas ya formateadas.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WorkbookWriter serializa las hojas a un archivo.
type WorkbookWriter interface {
	Write(ctx context.Context, sheets []Sheet) ([]byte, error)
}

// ThresholdProvider días de alerta vigentes (para la columna de estado).
type ThresholdProvider interface {
	AlertDays() int
}

// SnapshotUseCase arma la exportación completa.
type SnapshotUseCase struct {
	clientRepo     repository.ClientRepository
	membershipRepo repository.MembershipRepository
	paymentRepo    repository.PaymentRepository
	itemRepo       repository.InventoryItemRepository
	thresholds     ThresholdProvider
	writer         WorkbookWriter
	now            func() time.Time
}

// NewSnapshotUseCase construye el caso de uso.
func NewSnapshotUseCase(
	clientRepo repository.ClientRepository,
	membershipRepo repository.MembershipRepository,
	paymentRepo repository.PaymentRepository,
	itemRepo repository.InventoryItemRepository,
	thresholds ThresholdProvider,
	writer WorkbookWriter,
) *SnapshotUseCase {
	return &SnapshotUseCase{
		clientRepo:     clientRepo,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		itemRepo:       itemRepo,
		thresholds:     thresholds,
		writer:         writer,
		now:            time.Now,
	}
}

const dateLayout = "2006-01-02"

// Sheets construye las hojas Clientes, Membresías, Pagos e Inventario.
// Incluye clientes inactivos y sus registros.
func (uc *SnapshotUseCase) Sheets(ctx context.Context) ([]Sheet, error) {
	clients, err := uc.clientRepo.List(ctx, repository.ClientFilter{})
	if err != nil {
		return nil, fmt.Errorf("export: clientes: %w", err)
	}
	memberships, err := uc.membershipRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: membresías: %w", err)
	}
	payments, err := uc.paymentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: pagos: %w", err)
	}
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("export: inventario: %w", err)
	}

	clientSheet := Sheet{
		Name:   "Clientes",
		Header: []string{"ID", "Nombre", "Teléfono", "Sexo", "Fecha de nacimiento", "Fecha de registro", "Activo"},
	}
	for _, c := range clients {
		birth := ""
		if c.BirthDate != nil {
			birth = c.BirthDate.Format(dateLayout)
		}
		active := "No"
		if c.Active {
			active = "Sí"
		}
		clientSheet.Rows = append(clientSheet.Rows, []any{
			c.ID, c.Name, c.Phone, c.Sex, birth, c.RegistrationDate.Format(dateLayout), active,
		})
	}

	today, alertDays := membership.DateOf(uc.now()), uc.thresholds.AlertDays()
	membershipSheet := Sheet{
		Name:   "Membresías",
		Header: []string{"ID", "Cliente ID", "Cliente", "Tipo", "Inicio", "Vencimiento", "Monto", "Pago ID", "Estado"},
	}
	for _, m := range memberships {
		membershipSheet.Rows = append(membershipSheet.Rows, []any{
			m.ID, m.ClientID, m.ClientName, m.Type,
			m.StartDate.Format(dateLayout), m.ExpirationDate.Format(dateLayout),
			m.Amount.InexactFloat64(), optionalID(m.PaymentID),
			string(membership.Compute(m.ExpirationDate, today, alertDays)),
		})
	}

	paymentSheet := Sheet{
		Name:   "Pagos",
		Header: []string{"ID", "Cliente ID", "Cliente", "Membresía ID", "Fecha", "Monto", "Método", "Concepto"},
	}
	for _, p := range payments {
		paymentSheet.Rows = append(paymentSheet.Rows, []any{
			p.ID, p.ClientID, p.ClientName, optionalID(p.MembershipID),
			p.Date.Format(dateLayout), p.Amount.InexactFloat64(), p.Method, p.Concept,
		})
	}

	itemSheet := Sheet{
		Name:   "Inventario",
		Header: []string{"ID", "Nombre", "Categoría", "Cantidad", "Precio unitario", "Valor", "Stock mínimo"},
	}
	for _, i := range items {
		itemSheet.Rows = append(itemSheet.Rows, []any{
			i.ID, i.Name, i.Category, i.Quantity, i.UnitPrice.InexactFloat64(), i.Value().InexactFloat64(), i.LowStockThreshold,
		})
	}

	return []Sheet{clientSheet, membershipSheet, paymentSheet, itemSheet}, nil
}

// Export devuelve el libro serializado y el nombre de archivo sugerido.
func (uc *SnapshotUseCase) Export(ctx context.Context) ([]byte, string, error) {
	sheets, err := uc.Sheets(ctx)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.writer.Write(ctx, sheets)
	if err != nil {
		return nil, "", fmt.Errorf("export: escribir libro: %w", err)
	}
	return data, fmt.Sprintf("kyogym_%s.xlsx", uc.now().Format("20060102_150405")), nil
}

func optionalID(id *int64) any {
	if id == nil {
		return ""
	}
	return *id
}
