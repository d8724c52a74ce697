package membership

import "time"

// DateOf reduce t a su fecha de calendario (en la zona de t), representada a medianoche UTC.
// Todas las fechas de membresías y pagos se manejan en esta forma.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween número de días de calendario desde from hasta to (negativo si to es anterior).
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// MonthRange devuelve el primer y el último día del mes indicado.
// month fuera de 1..12 se normaliza como lo hace time.Date.
func MonthRange(year int, month time.Month) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// día 0 del mes siguiente = último día del mes (maneja diciembre y febrero bisiesto)
	last = time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return first, last
}
