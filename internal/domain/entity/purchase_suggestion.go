package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prioridades de sugerencia.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// PurchaseSuggestion recomendación derivada del consumo reciente.
// IsAccepted nil = pendiente; las pendientes se reemplazan en cada generación.
type PurchaseSuggestion struct {
	ID                  string
	TenantID            string
	ItemID              string
	ItemName            string
	CurrentStock        decimal.Decimal
	AvgDailyConsumption decimal.Decimal
	SuggestedQuantity   decimal.Decimal
	ReorderPoint        decimal.Decimal
	LeadTimeDays        int
	Priority            string
	EstimatedRunoutDate time.Time
	Confidence          decimal.Decimal
	IsAccepted          *bool
	DecidedBy           string
	DecidedAt           *time.Time
	CreatedAt           time.Time
}

// Pending indica si la sugerencia aún no fue decidida.
func (s *PurchaseSuggestion) Pending() bool {
	return s.IsAccepted == nil
}
