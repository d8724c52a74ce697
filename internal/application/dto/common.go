package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha en requests y respuestas (ISO, sin hora).
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ParseDate interpreta "YYYY-MM-DD". Cadena vacía devuelve nil sin error.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("fecha %q: se espera formato AAAA-MM-DD", s)
	}
	return &t, nil
}

// FormatDate formatea t como "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatOptionalDate igual que FormatDate pero devuelve "" para nil.
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// LenientAmount monto que acepta número o texto en JSON. Cualquier valor inválido o
// negativo se convierte en 0 en lugar de rechazar el request.
type LenientAmount struct {
	decimal.Decimal
}

// NewLenientAmount construye el monto desde un decimal (negativo → 0).
func NewLenientAmount(d decimal.Decimal) LenientAmount {
	if d.IsNegative() {
		return LenientAmount{}
	}
	return LenientAmount{Decimal: d}
}

// UnmarshalJSON implementa json.Unmarshaler sin devolver error por contenido inválido.
func (a *LenientAmount) UnmarshalJSON(b []byte) error {
	a.Decimal = parseLenient(b)
	return nil
}

// MarshalJSON serializa igual que decimal.Decimal.
func (a LenientAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Decimal)
}

func parseLenient(b []byte) decimal.Decimal {
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
		raw = []byte(strings.TrimSpace(s))
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
