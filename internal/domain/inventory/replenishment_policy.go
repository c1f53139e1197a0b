package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SuggestionParams parámetros heurísticos del modelo lineal de consumo.
type SuggestionParams struct {
	WindowDays   int
	SafetyFactor decimal.Decimal
	CoverDays    int
	Confidence   decimal.Decimal
}

// DefaultSuggestionParams: 30 días de historia, 20% de margen, una semana de cobertura.
func DefaultSuggestionParams() SuggestionParams {
	return SuggestionParams{
		WindowDays:   30,
		SafetyFactor: decimal.NewFromFloat(1.2),
		CoverDays:    7,
		Confidence:   decimal.NewFromFloat(0.8),
	}
}

// SuggestionCalc resultado del cálculo para un ítem.
type SuggestionCalc struct {
	AvgDaily          decimal.Decimal
	ReorderPoint      decimal.Decimal
	SuggestedQuantity decimal.Decimal
	DaysLeft          decimal.Decimal
	Priority          string
	RunoutDate        time.Time
}

// AvgDailyConsumption consumo total dividido por los días de la ventana.
func AvgDailyConsumption(total decimal.Decimal, windowDays int) decimal.Decimal {
	if windowDays <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(windowDays)))
}

// SafetyReorderPoint = consumo diario × lead time × factor de seguridad.
func SafetyReorderPoint(avgDaily decimal.Decimal, leadTimeDays int, safety decimal.Decimal) decimal.Decimal {
	return avgDaily.Mul(decimal.NewFromInt(int64(leadTimeDays))).Mul(safety)
}

// PriorityForDaysLeft: ≤1 URGENT, ≤3 HIGH, ≤5 MEDIUM, resto LOW.
func PriorityForDaysLeft(daysLeft decimal.Decimal) string {
	switch {
	case daysLeft.LessThanOrEqual(decimal.NewFromInt(1)):
		return entity.PriorityUrgent
	case daysLeft.LessThanOrEqual(decimal.NewFromInt(3)):
		return entity.PriorityHigh
	case daysLeft.LessThanOrEqual(decimal.NewFromInt(5)):
		return entity.PriorityMedium
	}
	return entity.PriorityLow
}

// ComputeSuggestion aplica el modelo de velocidad de consumo a un ítem.
// ok=false cuando no hay consumo, el stock cubre el punto de reorden o no falta nada.
func ComputeSuggestion(currentStock, totalConsumption decimal.Decimal, leadTimeDays int, p SuggestionParams, now time.Time) (SuggestionCalc, bool) {
	avgDaily := AvgDailyConsumption(totalConsumption, p.WindowDays)
	if !avgDaily.GreaterThan(decimal.Zero) {
		return SuggestionCalc{}, false
	}
	reorder := SafetyReorderPoint(avgDaily, leadTimeDays, p.SafetyFactor)
	if currentStock.GreaterThan(reorder) {
		return SuggestionCalc{}, false
	}
	suggested := avgDaily.Mul(decimal.NewFromInt(int64(p.CoverDays))).Sub(currentStock).Ceil()
	if !suggested.GreaterThan(decimal.Zero) {
		return SuggestionCalc{}, false
	}
	daysLeft := currentStock.Div(avgDaily)
	runout := time.Duration(daysLeft.Mul(decimal.NewFromInt(int64(24 * time.Hour))).IntPart())
	return SuggestionCalc{
		AvgDaily:          avgDaily,
		ReorderPoint:      reorder,
		SuggestedQuantity: suggested,
		DaysLeft:          daysLeft,
		Priority:          PriorityForDaysLeft(daysLeft),
		RunoutDate:        now.Add(runout),
	}, true
}

// MissingQuantity cuánto falta para llegar al punto de reorden efectivo (≤0 = nada).
func MissingQuantity(item *entity.Item) decimal.Decimal {
	return item.EffectiveReorderPoint().Sub(item.CurrentStock)
}
