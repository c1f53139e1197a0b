package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // compra / entrada
	MovementTypeOUT        = "OUT"        // consumo
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste o conteo
	MovementTypeWASTE      = "WASTE"      // merma
	MovementTypeRETURN     = "RETURN"     // devolución al stock
	MovementTypePRODUCTION = "PRODUCTION" // producción (entra el elaborado, salen insumos)
)

// Dirección del movimiento: IN suma al stock, OUT resta.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// Tipos de referencia usados por el propio núcleo.
const (
	ReferenceInventoryCount = "INVENTORY_COUNT"
	ReferencePurchaseList   = "PURCHASE_LIST"
	ReferenceImport         = "IMPORT"
)

// Movement es un registro inmutable del ledger: se crea una vez y nunca se modifica.
// Quantity siempre es positiva; Direction indica el signo aplicado al stock.
type Movement struct {
	ID            string
	TenantID      string
	ItemID        string
	Type          string
	Direction     string
	Quantity      decimal.Decimal
	Unit          string
	CostPerUnit   decimal.Decimal
	TotalCost     decimal.Decimal
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	BatchID       string
	SupplierID    string
	ReferenceType string
	ReferenceID   string
	Notes         string
	UserID        string
	OccurredAt    time.Time
	CreatedAt     time.Time
}

// SignedQuantity devuelve Quantity con el signo de Direction.
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// IsValidMovementType indica si t es uno de los tipos conocidos.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT,
		MovementTypeWASTE, MovementTypeRETURN, MovementTypePRODUCTION:
		return true
	}
	return false
}
