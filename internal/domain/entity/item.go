package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ítem. Solo las materias primas entran en el cálculo de sugerencias por consumo.
const (
	ItemKindRawMaterial = "RAW_MATERIAL"
	ItemKindPrepared    = "PREPARED"
)

// Item representa un producto con stock controlado por el ledger.
// CurrentStock, AvgCost y LastPurchase* solo cambian vía movimientos; los campos de
// reorden se editan por configuración. Nunca se elimina: se desactiva con IsActive=false.
type Item struct {
	ID                 string
	TenantID           string
	Name               string
	NormalizedName     string // nombre sin acentos ni mayúsculas, para resolver importaciones
	Category           string
	Kind               string
	BaseUnit           string
	CurrentStock       decimal.Decimal
	AvgCost            decimal.Decimal // costo promedio ponderado
	LastPurchasePrice  decimal.Decimal
	LastPurchaseDate   *time.Time
	ReorderPoint       decimal.Decimal  // calculado por el motor de reposición
	ManualReorderPoint *decimal.Decimal // override del operador, tiene prioridad
	LeadTimeDays       int
	IsPerishable       bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EffectiveReorderPoint devuelve ManualReorderPoint si existe, si no ReorderPoint.
func (i *Item) EffectiveReorderPoint() decimal.Decimal {
	if i.ManualReorderPoint != nil {
		return *i.ManualReorderPoint
	}
	return i.ReorderPoint
}

// IsRawMaterial indica si el ítem es insumo (vacío se trata como materia prima).
func (i *Item) IsRawMaterial() bool {
	return i.Kind == "" || i.Kind == ItemKindRawMaterial
}
