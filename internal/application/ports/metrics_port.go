package ports

// Metrics contadores de negocio del motor de inventario.
type Metrics interface {
	MovementRecorded(movementType, direction string)
	MovementRejected(reason string)
	AlertPublished(alertType, severity string)
	SuggestionsGenerated(count int)
	PurchaseListGenerated(triggerType string)
}

// NopMetrics descarta todo; útil en tests y en binarios sin /metrics.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(string, string) {}
func (NopMetrics) MovementRejected(string) {}
func (NopMetrics) AlertPublished(string, string) {}
func (NopMetrics) SuggestionsGenerated(int) {}
func (NopMetrics) PurchaseListGenerated(string) {}
