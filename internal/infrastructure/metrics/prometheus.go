// Package metrics expone contadores Prometheus de la operación del gimnasio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/kyogym/internal/application/inventory"
	"github.com/jhoicas/kyogym/internal/application/registry"
)

var (
	_ inventory.MovementRecorder         = (*Recorder)(nil)
	_ registry.MembershipCreatedRecorder = (*Recorder)(nil)
)

// Recorder agrupa los colectores en un registro propio (no el global).
type Recorder struct {
	registry           *prometheus.Registry
	movements          *prometheus.CounterVec
	movedUnits         *prometheus.CounterVec
	rejectedSales      prometheus.Counter
	membershipsCreated *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
}

// NewRecorder crea y registra los colectores.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		movements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyogym_inventory_movements_total",
				Help: "Movimientos de inventario confirmados por tipo",
			},
			[]string{"type"},
		),
		movedUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyogym_inventory_units_total",
				Help: "Unidades movidas por tipo de movimiento",
			},
			[]string{"type"},
		),
		rejectedSales: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "kyogym_inventory_rejected_sales_total",
				Help: "Ventas rechazadas por stock insuficiente",
			},
		),
		membershipsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyogym_memberships_created_total",
				Help: "Membresías creadas por tipo",
			},
			[]string{"type"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kyogym_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
	r.registry.MustRegister(
		r.movements,
		r.movedUnits,
		r.rejectedSales,
		r.membershipsCreated,
		r.requestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// MovementRecorded implementa inventory.MovementRecorder.
func (r *Recorder) MovementRecorded(movementType string, quantity int) {
	r.movements.WithLabelValues(movementType).Inc()
	r.movedUnits.WithLabelValues(movementType).Add(float64(quantity))
}

// SaleRejected implementa inventory.MovementRecorder.
func (r *Recorder) SaleRejected() {
	r.rejectedSales.Inc()
}

// MembershipCreated implementa registry.MembershipCreatedRecorder.
func (r *Recorder) MembershipCreated(kind string) {
	r.membershipsCreated.WithLabelValues(kind).Inc()
}

// ObserveRequest registra la duración de una petición HTTP.
func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	r.requestLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler expone el registro en formato Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry devuelve el registro (pruebas).
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
