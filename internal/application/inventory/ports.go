package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/kyogym/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el cambio de cantidad y su movimiento se confirmen juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}

// MovementRecorder recibe los movimientos confirmados y las ventas rechazadas (métricas).
type MovementRecorder interface {
	MovementRecorded(movementType string, quantity int)
	SaleRejected()
}

// Option ajusta el caso de uso al construirlo.
type Option func(*LedgerUseCase)

// WithClock reemplaza time.Now (útil en pruebas).
func WithClock(now func() time.Time) Option {
	return func(uc *LedgerUseCase) { uc.now = now }
}

// WithRecorder registra métricas de movimientos.
func WithRecorder(r MovementRecorder) Option {
	return func(uc *LedgerUseCase) { uc.recorder = r }
}
