package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frecuencias de la programación automática.
const (
	ScheduleWeekly  = "WEEKLY"
	ScheduleMonthly = "MONTHLY"
)

// ReplenishmentConfig política de reposición por tenant.
// Los toggles los evalúa un scheduler externo; los parámetros heurísticos los usa el motor.
type ReplenishmentConfig struct {
	TenantID                string
	PostInventoryEnabled    bool
	CriticalStockEnabled    bool
	CriticalStockPercentage decimal.Decimal
	ScheduleEnabled         bool
	ScheduleFrequency       string
	ScheduleWeekday         int // 0 = domingo
	ScheduleMonthDay        int
	ConsumptionWindowDays   int
	SafetyFactor            decimal.Decimal
	CoverDays               int
	Confidence              decimal.Decimal
	UpdatedBy               string
	UpdatedAt               time.Time
}
