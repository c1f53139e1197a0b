package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de alerta.
const (
	AlertLowStock      = "LOW_STOCK"
	AlertOutOfStock    = "OUT_OF_STOCK"
	AlertExpiringBatch = "EXPIRING_BATCH"
	AlertExpiredBatch  = "EXPIRED_BATCH"
)

// Severidades.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Alert value object derivado del estado del ledger o de los lotes.
// La entrega (email, push) y su persistencia son responsabilidad de colaboradores externos.
type Alert struct {
	Type           string
	Severity       string
	Message        string
	TenantID       string
	ItemID         string
	BatchID        string
	MovementID     string
	Stock          decimal.Decimal
	Threshold      decimal.Decimal
	ExpirationDate *time.Time
	CreatedAt      time.Time
}
