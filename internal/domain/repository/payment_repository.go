package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kyogym/internal/domain/entity"
)

// PaymentFilter filtros para listar pagos. Fechas inclusivas; nil = sin límite.
type PaymentFilter struct {
	ClientID int64
	From     *time.Time
	To       *time.Time
	Limit    int
}

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id int64) (*entity.Payment, error)
	// List ordena por fecha descendente e id descendente.
	List(ctx context.Context, f PaymentFilter) ([]*entity.Payment, error)
	ListAll(ctx context.Context) ([]*entity.Payment, error)
	Update(ctx context.Context, p *entity.Payment) error
	Delete(ctx context.Context, id int64) error
}
