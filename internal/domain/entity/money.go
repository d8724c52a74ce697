package entity

import "github.com/shopspring/decimal"

// MoneyScale decimales con que se guardan montos y precios (NUMERIC(12,2) en PostgreSQL).
const MoneyScale = 2

// RoundMoney redondea a centavos, para que ambos almacenes devuelvan el mismo valor.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}
