package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreateItemRequest alta de un ítem del catálogo.
type CreateItemRequest struct {
	Name               string           `json:"name"`
	Category           string           `json:"category"`
	Kind               string           `json:"kind"` // RAW_MATERIAL | PREPARED
	BaseUnit           string           `json:"base_unit"`
	ManualReorderPoint *decimal.Decimal `json:"manual_reorder_point,omitempty"`
	LeadTimeDays       int              `json:"lead_time_days"`
	IsPerishable       bool             `json:"is_perishable"`
}

// ToInput convierte la petición al input del caso de uso.
func (r CreateItemRequest) ToInput() inventory.CreateItemInput {
	return inventory.CreateItemInput{
		Name:               r.Name,
		Category:           r.Category,
		Kind:               r.Kind,
		BaseUnit:           r.BaseUnit,
		ManualReorderPoint: r.ManualReorderPoint,
		LeadTimeDays:       r.LeadTimeDays,
		IsPerishable:       r.IsPerishable,
	}
}

// UpdateItemRequest cambios parciales de configuración; campos ausentes no cambian.
type UpdateItemRequest struct {
	Name                    *string          `json:"name,omitempty"`
	Category                *string          `json:"category,omitempty"`
	Kind                    *string          `json:"kind,omitempty"`
	BaseUnit                *string          `json:"base_unit,omitempty"`
	ManualReorderPoint      *decimal.Decimal `json:"manual_reorder_point,omitempty"`
	ClearManualReorderPoint bool             `json:"clear_manual_reorder_point,omitempty"`
	LeadTimeDays            *int             `json:"lead_time_days,omitempty"`
	IsPerishable            *bool            `json:"is_perishable,omitempty"`
	IsActive                *bool            `json:"is_active,omitempty"`
}

func (r UpdateItemRequest) ToInput() inventory.UpdateItemInput {
	return inventory.UpdateItemInput{
		Name:                    r.Name,
		Category:                r.Category,
		Kind:                    r.Kind,
		BaseUnit:                r.BaseUnit,
		ManualReorderPoint:      r.ManualReorderPoint,
		ClearManualReorderPoint: r.ClearManualReorderPoint,
		LeadTimeDays:            r.LeadTimeDays,
		IsPerishable:            r.IsPerishable,
		IsActive:                r.IsActive,
	}
}

// ItemResponse ítem con su stock y costo vigentes.
type ItemResponse struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	Category              string           `json:"category"`
	Kind                  string           `json:"kind"`
	BaseUnit              string           `json:"base_unit"`
	CurrentStock          decimal.Decimal  `json:"current_stock"`
	AvgCost               decimal.Decimal  `json:"avg_cost"`
	LastPurchasePrice     decimal.Decimal  `json:"last_purchase_price"`
	LastPurchaseDate      *time.Time       `json:"last_purchase_date,omitempty"`
	ReorderPoint          decimal.Decimal  `json:"reorder_point"`
	ManualReorderPoint    *decimal.Decimal `json:"manual_reorder_point,omitempty"`
	EffectiveReorderPoint decimal.Decimal  `json:"effective_reorder_point"`
	LeadTimeDays          int              `json:"lead_time_days"`
	IsPerishable          bool             `json:"is_perishable"`
	IsActive              bool             `json:"is_active"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

func ItemFromEntity(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:                    i.ID,
		Name:                  i.Name,
		Category:              i.Category,
		Kind:                  i.Kind,
		BaseUnit:              i.BaseUnit,
		CurrentStock:          i.CurrentStock,
		AvgCost:               i.AvgCost,
		LastPurchasePrice:     i.LastPurchasePrice,
		LastPurchaseDate:      i.LastPurchaseDate,
		ReorderPoint:          i.ReorderPoint,
		ManualReorderPoint:    i.ManualReorderPoint,
		EffectiveReorderPoint: i.EffectiveReorderPoint(),
		LeadTimeDays:          i.LeadTimeDays,
		IsPerishable:          i.IsPerishable,
		IsActive:              i.IsActive,
		UpdatedAt:             i.UpdatedAt,
	}
}

func ItemsFromEntities(items []*entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ItemFromEntity(i))
	}
	return out
}

// MovementRequest registro de un movimiento. batch_number/expiration_date solo aplican a entradas.
type MovementRequest struct {
	ItemID         string           `json:"item_id"`
	Type           string           `json:"type"`
	Direction      string           `json:"direction,omitempty"` // obligatorio solo para ADJUSTMENT
	Quantity       decimal.Decimal  `json:"quantity"`
	Unit           string           `json:"unit,omitempty"`
	CostPerUnit    *decimal.Decimal `json:"cost_per_unit,omitempty"`
	BatchNumber    string           `json:"batch_number,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	BatchID        string           `json:"batch_id,omitempty"`
	SupplierID     string           `json:"supplier_id,omitempty"`
	ReferenceType  string           `json:"reference_type,omitempty"`
	ReferenceID    string           `json:"reference_id,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	OccurredAt     *time.Time       `json:"occurred_at,omitempty"`
}

func (r MovementRequest) ToInput() inventory.MovementInput {
	in := inventory.MovementInput{
		ItemID:        r.ItemID,
		Type:          r.Type,
		Direction:     r.Direction,
		Quantity:      r.Quantity,
		Unit:          r.Unit,
		CostPerUnit:   r.CostPerUnit,
		BatchID:       r.BatchID,
		SupplierID:    r.SupplierID,
		ReferenceType: r.ReferenceType,
		ReferenceID:   r.ReferenceID,
		Notes:         r.Notes,
		OccurredAt:    r.OccurredAt,
	}
	if r.BatchNumber != "" || r.ExpirationDate != nil {
		in.Batch = &entity.BatchInfo{BatchNumber: r.BatchNumber, ExpirationDate: r.ExpirationDate}
	}
	return in
}

// BulkMovementRequest carga masiva todo-o-nada (p. ej. factura de proveedor).
type BulkMovementRequest struct {
	SupplierID string            `json:"supplier_id,omitempty"`
	Entries    []MovementRequest `json:"entries"`
}

func (r BulkMovementRequest) ToInput() inventory.BulkInput {
	in := inventory.BulkInput{SupplierID: r.SupplierID, Entries: make([]inventory.MovementInput, 0, len(r.Entries))}
	for _, e := range r.Entries {
		in.Entries = append(in.Entries, e.ToInput())
	}
	return in
}

// MovementResponse asiento del ledger.
type MovementResponse struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	Type          string          `json:"type"`
	Direction     string          `json:"direction"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	BatchID       string          `json:"batch_id,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	UserID        string          `json:"user_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func MovementFromEntity(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ItemID:        m.ItemID,
		Type:          m.Type,
		Direction:     m.Direction,
		Quantity:      m.Quantity,
		Unit:          m.Unit,
		CostPerUnit:   m.CostPerUnit,
		TotalCost:     m.TotalCost,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		BatchID:       m.BatchID,
		SupplierID:    m.SupplierID,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		UserID:        m.UserID,
		OccurredAt:    m.OccurredAt,
	}
}

func MovementsFromEntities(movs []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, MovementFromEntity(m))
	}
	return out
}

// CountRequest conteo físico; cada línea se concilia por separado.
type CountRequest struct {
	Lines []CountLineRequest `json:"lines"`
}

type CountLineRequest struct {
	ItemID  string          `json:"item_id"`
	Counted decimal.Decimal `json:"counted"`
	Notes   string          `json:"notes,omitempty"`
}

func (r CountRequest) ToLines() []inventory.CountLine {
	out := make([]inventory.CountLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		out = append(out, inventory.CountLine{ItemID: l.ItemID, Counted: l.Counted, Notes: l.Notes})
	}
	return out
}

// CountResponse ajustes generados y, si la política lo pide, la lista post-inventario.
type CountResponse struct {
	Adjustments  []MovementResponse    `json:"adjustments"`
	PurchaseList *PurchaseListResponse `json:"purchase_list,omitempty"`
}

// ImportResponse resultado de una importación de planilla.
type ImportResponse struct {
	Movements    []MovementResponse `json:"movements"`
	CreatedItems []ItemResponse     `json:"created_items"`
}

// BatchResponse lote perecible con su saldo.
type BatchResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	BatchNumber    string          `json:"batch_number,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	RemainingQty   decimal.Decimal `json:"remaining_qty"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	ReceivedAt     time.Time       `json:"received_at"`
}

func BatchesFromEntities(batches []*entity.Batch) []BatchResponse {
	out := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, BatchResponse{
			ID:             b.ID,
			ItemID:         b.ItemID,
			BatchNumber:    b.BatchNumber,
			Quantity:       b.Quantity,
			RemainingQty:   b.RemainingQty,
			CostPerUnit:    b.CostPerUnit,
			ExpirationDate: b.ExpirationDate,
			ReceivedAt:     b.ReceivedAt,
		})
	}
	return out
}

// AlertResponse alerta emitida por un escaneo.
type AlertResponse struct {
	Type           string          `json:"type"`
	Severity       string          `json:"severity"`
	Message        string          `json:"message"`
	ItemID         string          `json:"item_id,omitempty"`
	BatchID        string          `json:"batch_id,omitempty"`
	Stock          decimal.Decimal `json:"stock"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func AlertsFromEntities(alerts []entity.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertResponse{
			Type:           a.Type,
			Severity:       a.Severity,
			Message:        a.Message,
			ItemID:         a.ItemID,
			BatchID:        a.BatchID,
			Stock:          a.Stock,
			ExpirationDate: a.ExpirationDate,
			CreatedAt:      a.CreatedAt,
		})
	}
	return out
}
