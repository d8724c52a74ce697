// Package analytics arma el resumen del panel principal (membresías, pagos del mes, inventario).
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kyogym/internal/application/dto"
)

// Cantidades de filas de los widgets del panel.
const (
	dashboardLatestPayments = 5
	dashboardExpiringSoon   = 10
)

// MembershipReader consultas de membresías que usa el panel.
type MembershipReader interface {
	CountByStatus(ctx context.Context) (*dto.StatusCountResponse, error)
	ListExpiringSoon(ctx context.Context, limit int) ([]*dto.MembershipResponse, error)
}

// ClientReader consultas de clientes que usa el panel.
type ClientReader interface {
	CountBySex(ctx context.Context) (map[string]int, error)
}

// PaymentReader consultas de pagos que usa el panel.
type PaymentReader interface {
	MonthTotal(ctx context.Context, year, month int) (*dto.MonthTotalResponse, error)
	Latest(ctx context.Context, limit int) ([]*dto.PaymentResponse, error)
}

// InventoryReader consultas de inventario que usa el panel.
type InventoryReader interface {
	LowStock(ctx context.Context) ([]*dto.ItemResponse, error)
	InventoryValue(ctx context.Context) (*dto.InventoryValueResponse, error)
}

// DashboardUseCase genera el resumen que la UI refresca periódicamente.
// Todo se recalcula en cada llamada; no hay caché.
type DashboardUseCase struct {
	memberships MembershipReader
	clients     ClientReader
	payments    PaymentReader
	inventory   InventoryReader
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	memberships MembershipReader,
	clients ClientReader,
	payments PaymentReader,
	inventory InventoryReader,
) *DashboardUseCase {
	return &DashboardUseCase{
		memberships: memberships,
		clients:     clients,
		payments:    payments,
		inventory:   inventory,
		now:         time.Now,
	}
}

// WithClock reemplaza time.Now (pruebas).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Dos grupos de consultas en paralelo:
//  1. Registro: conteo por estado, por vencer, clientes por sexo, total del mes, últimos pagos
//  2. Inventario: stock bajo y valor total
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	type registryResult struct {
		counts   *dto.StatusCountResponse
		expiring []*dto.MembershipResponse
		bySex    map[string]int
		month    *dto.MonthTotalResponse
		latest   []*dto.PaymentResponse
		err      error
	}
	type inventoryResult struct {
		lowStock []*dto.ItemResponse
		value    *dto.InventoryValueResponse
		err      error
	}

	regCh := make(chan registryResult, 1)
	invCh := make(chan inventoryResult, 1)

	go func() {
		var r registryResult
		if r.counts, r.err = uc.memberships.CountByStatus(ctx); r.err != nil {
			r.err = fmt.Errorf("dashboard: membresías por estado: %w", r.err)
		} else if r.expiring, r.err = uc.memberships.ListExpiringSoon(ctx, dashboardExpiringSoon); r.err != nil {
			r.err = fmt.Errorf("dashboard: por vencer: %w", r.err)
		} else if r.bySex, r.err = uc.clients.CountBySex(ctx); r.err != nil {
			r.err = fmt.Errorf("dashboard: clientes por sexo: %w", r.err)
		} else if r.month, r.err = uc.payments.MonthTotal(ctx, now.Year(), int(now.Month())); r.err != nil {
			r.err = fmt.Errorf("dashboard: total del mes: %w", r.err)
		} else if r.latest, r.err = uc.payments.Latest(ctx, dashboardLatestPayments); r.err != nil {
			r.err = fmt.Errorf("dashboard: últimos pagos: %w", r.err)
		}
		regCh <- r
	}()
	go func() {
		var r inventoryResult
		if r.lowStock, r.err = uc.inventory.LowStock(ctx); r.err != nil {
			r.err = fmt.Errorf("dashboard: stock bajo: %w", r.err)
		} else if r.value, r.err = uc.inventory.InventoryValue(ctx); r.err != nil {
			r.err = fmt.Errorf("dashboard: valor de inventario: %w", r.err)
		}
		invCh <- r
	}()

	reg := <-regCh
	inv := <-invCh
	if reg.err != nil {
		return nil, reg.err
	}
	if inv.err != nil {
		return nil, inv.err
	}

	return &dto.DashboardSummaryDTO{
		Memberships:    *reg.counts,
		ClientsBySex:   reg.bySex,
		MonthTotal:     reg.month.Total.Round(2),
		DateLabel:      monthLabel(now),
		LatestPayments: derefAll(reg.latest),
		ExpiringSoon:   derefAll(reg.expiring),
		LowStock:       derefAll(inv.lowStock),
		InventoryValue: inv.value.Total.Round(2),
	}, nil
}

func derefAll[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
