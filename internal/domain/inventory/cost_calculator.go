package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock resultante no es positivo se conserva el costo actual.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoActual
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// ResolveCost elige el costo unitario del movimiento: explícito si viene,
// último precio de compra para entradas, costo promedio para el resto.
func ResolveCost(explicit *decimal.Decimal, isPurchase bool, lastPurchasePrice, avgCost decimal.Decimal) decimal.Decimal {
	if explicit != nil {
		return *explicit
	}
	if isPurchase {
		return lastPurchasePrice
	}
	return avgCost
}
