package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/replenishment"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// GeneratePurchaseListRequest generación manual (o forzada) de una lista.
type GeneratePurchaseListRequest struct {
	TriggerType string `json:"trigger_type"` // vacío = MANUAL
	Description string `json:"description"`
}

// PurchaseListItemResponse línea de la lista con la foto tomada al generarla.
type PurchaseListItemResponse struct {
	ID                string           `json:"id"`
	ItemID            string           `json:"item_id"`
	ProductName       string           `json:"product_name"`
	Unit              string           `json:"unit"`
	ReorderPoint      decimal.Decimal  `json:"reorder_point"`
	CurrentStock      decimal.Decimal  `json:"current_stock"`
	SuggestedQuantity decimal.Decimal  `json:"suggested_quantity"`
	ConfirmedQuantity *decimal.Decimal `json:"confirmed_quantity,omitempty"`
	Status            string           `json:"status"`
	ConfirmedBy       string           `json:"confirmed_by,omitempty"`
	ConfirmedAt       *time.Time       `json:"confirmed_at,omitempty"`
}

func PurchaseListItemFromEntity(it *entity.PurchaseListItem) PurchaseListItemResponse {
	return PurchaseListItemResponse{
		ID:                it.ID,
		ItemID:            it.ItemID,
		ProductName:       it.ProductName,
		Unit:              it.Unit,
		ReorderPoint:      it.ReorderPoint,
		CurrentStock:      it.CurrentStock,
		SuggestedQuantity: it.SuggestedQuantity,
		ConfirmedQuantity: it.ConfirmedQuantity,
		Status:            it.Status,
		ConfirmedBy:       it.ConfirmedBy,
		ConfirmedAt:       it.ConfirmedAt,
	}
}

type PurchaseListResponse struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	TriggerType string                     `json:"trigger_type"`
	Status      string                     `json:"status"`
	CreatedBy   string                     `json:"created_by,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
	Items       []PurchaseListItemResponse `json:"items"`
}

func PurchaseListFromEntity(l *entity.PurchaseList) *PurchaseListResponse {
	if l == nil {
		return nil
	}
	out := &PurchaseListResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		TriggerType: l.TriggerType,
		Status:      l.Status,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		Items:       make([]PurchaseListItemResponse, 0, len(l.Items)),
	}
	for _, it := range l.Items {
		out.Items = append(out.Items, PurchaseListItemFromEntity(it))
	}
	return out
}

func PurchaseListsFromEntities(lists []*entity.PurchaseList) []*PurchaseListResponse {
	out := make([]*PurchaseListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, PurchaseListFromEntity(l))
	}
	return out
}

// ConfirmArrivalRequest cantidad recibida; purchase_price opcional actualiza el costo.
type ConfirmArrivalRequest struct {
	Quantity      decimal.Decimal  `json:"quantity"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
}

type ConfirmationResponse struct {
	List     *PurchaseListResponse    `json:"list"`
	Item     PurchaseListItemResponse `json:"item"`
	Movement MovementResponse         `json:"movement"`
}

func ConfirmationFromResult(r *replenishment.ConfirmationResult) ConfirmationResponse {
	return ConfirmationResponse{
		List:     PurchaseListFromEntity(r.List),
		Item:     PurchaseListItemFromEntity(r.Item),
		Movement: MovementFromEntity(r.Movement),
	}
}

// SuggestionResponse sugerencia de compra por consumo.
type SuggestionResponse struct {
	ID                  string          `json:"id"`
	ItemID              string          `json:"item_id"`
	ItemName            string          `json:"item_name"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	AvgDailyConsumption decimal.Decimal `json:"avg_daily_consumption"`
	SuggestedQuantity   decimal.Decimal `json:"suggested_quantity"`
	ReorderPoint        decimal.Decimal `json:"reorder_point"`
	LeadTimeDays        int             `json:"lead_time_days"`
	Priority            string          `json:"priority"`
	EstimatedRunoutDate time.Time       `json:"estimated_runout_date"`
	Confidence          decimal.Decimal `json:"confidence"`
	IsAccepted          *bool           `json:"is_accepted"`
	DecidedBy           string          `json:"decided_by,omitempty"`
	DecidedAt           *time.Time      `json:"decided_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

func SuggestionFromEntity(s *entity.PurchaseSuggestion) SuggestionResponse {
	return SuggestionResponse{
		ID:                  s.ID,
		ItemID:              s.ItemID,
		ItemName:            s.ItemName,
		CurrentStock:        s.CurrentStock,
		AvgDailyConsumption: s.AvgDailyConsumption,
		SuggestedQuantity:   s.SuggestedQuantity,
		ReorderPoint:        s.ReorderPoint,
		LeadTimeDays:        s.LeadTimeDays,
		Priority:            s.Priority,
		EstimatedRunoutDate: s.EstimatedRunoutDate,
		Confidence:          s.Confidence,
		IsAccepted:          s.IsAccepted,
		DecidedBy:           s.DecidedBy,
		DecidedAt:           s.DecidedAt,
		CreatedAt:           s.CreatedAt,
	}
}

func SuggestionsFromEntities(ss []*entity.PurchaseSuggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, SuggestionFromEntity(s))
	}
	return out
}

// DecideSuggestionRequest aceptar o rechazar una sugerencia pendiente.
type DecideSuggestionRequest struct {
	Accept *bool `json:"accept"`
}

// ReplenishmentConfigRequest cambios parciales de la política del tenant.
type ReplenishmentConfigRequest struct {
	PostInventoryEnabled    *bool            `json:"post_inventory_enabled,omitempty"`
	CriticalStockEnabled    *bool            `json:"critical_stock_enabled,omitempty"`
	CriticalStockPercentage *decimal.Decimal `json:"critical_stock_percentage,omitempty"`
	ScheduleEnabled         *bool            `json:"schedule_enabled,omitempty"`
	ScheduleFrequency       *string          `json:"schedule_frequency,omitempty"`
	ScheduleWeekday         *int             `json:"schedule_weekday,omitempty"`
	ScheduleMonthDay        *int             `json:"schedule_month_day,omitempty"`
	ConsumptionWindowDays   *int             `json:"consumption_window_days,omitempty"`
	SafetyFactor            *decimal.Decimal `json:"safety_factor,omitempty"`
	CoverDays               *int             `json:"cover_days,omitempty"`
	Confidence              *decimal.Decimal `json:"confidence,omitempty"`
}

func (r ReplenishmentConfigRequest) ToInput() replenishment.ConfigInput {
	return replenishment.ConfigInput{
		PostInventoryEnabled:    r.PostInventoryEnabled,
		CriticalStockEnabled:    r.CriticalStockEnabled,
		CriticalStockPercentage: r.CriticalStockPercentage,
		ScheduleEnabled:         r.ScheduleEnabled,
		ScheduleFrequency:       r.ScheduleFrequency,
		ScheduleWeekday:         r.ScheduleWeekday,
		ScheduleMonthDay:        r.ScheduleMonthDay,
		ConsumptionWindowDays:   r.ConsumptionWindowDays,
		SafetyFactor:            r.SafetyFactor,
		CoverDays:               r.CoverDays,
		Confidence:              r.Confidence,
	}
}

type ReplenishmentConfigResponse struct {
	PostInventoryEnabled    bool            `json:"post_inventory_enabled"`
	CriticalStockEnabled    bool            `json:"critical_stock_enabled"`
	CriticalStockPercentage decimal.Decimal `json:"critical_stock_percentage"`
	ScheduleEnabled         bool            `json:"schedule_enabled"`
	ScheduleFrequency       string          `json:"schedule_frequency"`
	ScheduleWeekday         int             `json:"schedule_weekday"`
	ScheduleMonthDay        int             `json:"schedule_month_day"`
	ConsumptionWindowDays   int             `json:"consumption_window_days"`
	SafetyFactor            decimal.Decimal `json:"safety_factor"`
	CoverDays               int             `json:"cover_days"`
	Confidence              decimal.Decimal `json:"confidence"`
	UpdatedBy               string          `json:"updated_by,omitempty"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

func ReplenishmentConfigFromEntity(c *entity.ReplenishmentConfig) ReplenishmentConfigResponse {
	return ReplenishmentConfigResponse{
		PostInventoryEnabled:    c.PostInventoryEnabled,
		CriticalStockEnabled:    c.CriticalStockEnabled,
		CriticalStockPercentage: c.CriticalStockPercentage,
		ScheduleEnabled:         c.ScheduleEnabled,
		ScheduleFrequency:       c.ScheduleFrequency,
		ScheduleWeekday:         c.ScheduleWeekday,
		ScheduleMonthDay:        c.ScheduleMonthDay,
		ConsumptionWindowDays:   c.ConsumptionWindowDays,
		SafetyFactor:            c.SafetyFactor,
		CoverDays:               c.CoverDays,
		Confidence:              c.Confidence,
		UpdatedBy:               c.UpdatedBy,
		UpdatedAt:               c.UpdatedAt,
	}
}
