package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Disparadores de una lista de compras.
const (
	TriggerManual        = "MANUAL"
	TriggerCriticalStock = "ESTOQUE_CRITICO"
	TriggerScheduled     = "AGENDADO"
	TriggerPostInventory = "POS_INVENTARIO"
)

// Estados de la lista.
const (
	ListStatusPending    = "PENDENTE"
	ListStatusInProgress = "EM_ANDAMENTO"
	ListStatusCompleted  = "CONCLUIDA"
)

// Estados de un ítem de la lista.
const (
	ListItemPending   = "PENDENTE"
	ListItemPartial   = "PARCIAL"
	ListItemArrived   = "CHEGOU"
	ListItemCancelled = "CANCELADO"
)

// PurchaseList es una corrida de reposición accionable por el operador.
type PurchaseList struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	TriggerType string
	Status      string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []*PurchaseListItem
}

// PurchaseListItem guarda una foto del producto al momento de generar la lista.
// ConfirmedQuantity acumula lo recibido; cada confirmación genera exactamente un IN.
type PurchaseListItem struct {
	ID                string
	ListID            string
	TenantID          string
	ItemID            string
	ProductName       string
	Unit              string
	ReorderPoint      decimal.Decimal
	CurrentStock      decimal.Decimal
	SuggestedQuantity decimal.Decimal
	ConfirmedQuantity *decimal.Decimal
	Status            string
	ConfirmedBy       string
	ConfirmedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsValidTrigger indica si t es un disparador conocido.
func IsValidTrigger(t string) bool {
	switch t {
	case TriggerManual, TriggerCriticalStock, TriggerScheduled, TriggerPostInventory:
		return true
	}
	return false
}

// RecomputeStatus recalcula el estado de la lista: CONCLUIDA si no quedan ítems PENDENTE.
func (l *PurchaseList) RecomputeStatus() {
	for _, it := range l.Items {
		if it.Status == ListItemPending {
			l.Status = ListStatusInProgress
			return
		}
	}
	l.Status = ListStatusCompleted
}
