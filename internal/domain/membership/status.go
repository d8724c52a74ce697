// Package membership contiene las reglas puras del ciclo de vida de una membresía:
// duración fija, cálculo de estado a partir de la fecha de vencimiento y rangos de mes.
package membership

import "time"

// Status estado derivado de una membresía. Nunca se persiste.
type Status string

// Estados posibles.
const (
	StatusActive   Status = "Activa"
	StatusExpiring Status = "Por Vencer"
	StatusExpired  Status = "Vencida"
)

// DefaultAlertDays días antes del vencimiento en que una membresía pasa a "Por Vencer".
const DefaultAlertDays = 7

// DurationDays duración fija de toda membresía.
const DurationDays = 30

// ParseStatus convierte la etiqueta en Status. ok=false si no es un estado conocido.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusExpiring, StatusExpired:
		return Status(s), true
	}
	return "", false
}

// IsCurrent reporta si la membresía sigue vigente (Activa o Por Vencer).
func (s Status) IsCurrent() bool {
	return s == StatusActive || s == StatusExpiring
}

// Compute clasifica una membresía según los días que faltan para su vencimiento,
// evaluados contra la fecha local today:
//
//	dias < 0          → Vencida
//	0 <= dias <= alert → Por Vencer (el día del vencimiento cuenta como por vencer)
//	dias > alert       → Activa
//
// Un alert negativo se reemplaza por DefaultAlertDays.
func Compute(expiration, today time.Time, alertDays int) Status {
	if alertDays < 0 {
		alertDays = DefaultAlertDays
	}
	days := DaysBetween(today, expiration)
	switch {
	case days < 0:
		return StatusExpired
	case days <= alertDays:
		return StatusExpiring
	default:
		return StatusActive
	}
}

// ExpirationFor devuelve la fecha de vencimiento para una membresía que inicia en start.
func ExpirationFor(start time.Time) time.Time {
	return DateOf(start).AddDate(0, 0, DurationDays)
}
