package booking

import "github.com/shopspring/decimal"

// CommissionRate tasa fija de comisión del cajero sobre sus ventas del día (10%).
var CommissionRate = decimal.NewFromFloat(0.10)

// Commission calcula la comisión sobre un monto (servicio de dominio).
// Comision = Monto * 0.10, redondeado a 2 decimales.
func Commission(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(CommissionRate).Round(2)
}
