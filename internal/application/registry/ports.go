// Package registry contiene los casos de uso de clientes, membresías y pagos:
// CRUD más las consultas derivadas (conteos por estado, totales del mes, próximas a vencer).
package registry

import (
	"context"
	"time"

	"github.com/jhoicas/kyogym/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace rollback y nada queda persistido.
type TxRunner interface {
	RunRegistry(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		membershipRepo repository.MembershipRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// ThresholdProvider entrega los días de alerta "Por Vencer" vigentes.
// Se consulta en cada listado, así un cambio de configuración aplica sin reiniciar.
type ThresholdProvider interface {
	AlertDays() int
}

// Option ajusta un caso de uso al construirlo.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock reemplaza time.Now (útil en pruebas).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
