package replenishment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininventory "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ConfigInput cambios parciales de la política; nil = sin cambio.
type ConfigInput struct {
	PostInventoryEnabled    *bool
	CriticalStockEnabled    *bool
	CriticalStockPercentage *decimal.Decimal
	ScheduleEnabled         *bool
	ScheduleFrequency       *string
	ScheduleWeekday         *int
	ScheduleMonthDay        *int
	ConsumptionWindowDays   *int
	SafetyFactor            *decimal.Decimal
	CoverDays               *int
	Confidence              *decimal.Decimal
}

// GetConfig devuelve la política del tenant o la política por defecto si nunca se guardó.
func (uc *UseCase) GetConfig(ctx context.Context, scope entity.Scope) (*entity.ReplenishmentConfig, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.loadConfig(ctx, uc.repos.Configs, scope.TenantID)
}

// UpdateConfig valida y guarda la política del tenant.
func (uc *UseCase) UpdateConfig(ctx context.Context, scope entity.Scope, in ConfigInput) (*entity.ReplenishmentConfig, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	cfg, err := uc.loadConfig(ctx, uc.repos.Configs, scope.TenantID)
	if err != nil {
		return nil, err
	}
	if in.PostInventoryEnabled != nil {
		cfg.PostInventoryEnabled = *in.PostInventoryEnabled
	}
	if in.CriticalStockEnabled != nil {
		cfg.CriticalStockEnabled = *in.CriticalStockEnabled
	}
	if in.CriticalStockPercentage != nil {
		cfg.CriticalStockPercentage = *in.CriticalStockPercentage
	}
	if in.ScheduleEnabled != nil {
		cfg.ScheduleEnabled = *in.ScheduleEnabled
	}
	if in.ScheduleFrequency != nil {
		cfg.ScheduleFrequency = *in.ScheduleFrequency
	}
	if in.ScheduleWeekday != nil {
		cfg.ScheduleWeekday = *in.ScheduleWeekday
	}
	if in.ScheduleMonthDay != nil {
		cfg.ScheduleMonthDay = *in.ScheduleMonthDay
	}
	if in.ConsumptionWindowDays != nil {
		cfg.ConsumptionWindowDays = *in.ConsumptionWindowDays
	}
	if in.SafetyFactor != nil {
		cfg.SafetyFactor = *in.SafetyFactor
	}
	if in.CoverDays != nil {
		cfg.CoverDays = *in.CoverDays
	}
	if in.Confidence != nil {
		cfg.Confidence = *in.Confidence
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	cfg.UpdatedBy = scope.UserID
	cfg.UpdatedAt = uc.now()
	if err := uc.repos.Configs.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (uc *UseCase) loadConfig(ctx context.Context, repo repository.ReplenishmentConfigRepository, tenantID string) (*entity.ReplenishmentConfig, error) {
	cfg, err := repo.Get(ctx, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return uc.defaultConfig(tenantID), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (uc *UseCase) defaultConfig(tenantID string) *entity.ReplenishmentConfig {
	return &entity.ReplenishmentConfig{
		TenantID:                tenantID,
		CriticalStockPercentage: decimal.NewFromInt(50),
		ScheduleFrequency:       entity.ScheduleWeekly,
		ScheduleWeekday:         1,
		ScheduleMonthDay:        1,
		ConsumptionWindowDays:   uc.defaults.WindowDays,
		SafetyFactor:            uc.defaults.SafetyFactor,
		CoverDays:               uc.defaults.CoverDays,
		Confidence:              uc.defaults.Confidence,
	}
}

func paramsFrom(cfg *entity.ReplenishmentConfig) domaininventory.SuggestionParams {
	return domaininventory.SuggestionParams{
		WindowDays:   cfg.ConsumptionWindowDays,
		SafetyFactor: cfg.SafetyFactor,
		CoverDays:    cfg.CoverDays,
		Confidence:   cfg.Confidence,
	}
}

func validateConfig(cfg *entity.ReplenishmentConfig) error {
	hundred := decimal.NewFromInt(100)
	switch {
	case cfg.CriticalStockPercentage.IsNegative() || cfg.CriticalStockPercentage.GreaterThan(hundred):
		return fmt.Errorf("%w: porcentaje crítico fuera de 0-100", domain.ErrInvalidInput)
	case cfg.ScheduleFrequency != entity.ScheduleWeekly && cfg.ScheduleFrequency != entity.ScheduleMonthly:
		return fmt.Errorf("%w: frecuencia %q", domain.ErrInvalidInput, cfg.ScheduleFrequency)
	case cfg.ScheduleWeekday < 0 || cfg.ScheduleWeekday > 6:
		return fmt.Errorf("%w: día de la semana fuera de 0-6", domain.ErrInvalidInput)
	case cfg.ScheduleMonthDay < 1 || cfg.ScheduleMonthDay > 31:
		return fmt.Errorf("%w: día del mes fuera de 1-31", domain.ErrInvalidInput)
	case cfg.ConsumptionWindowDays < 1:
		return fmt.Errorf("%w: ventana de consumo debe ser al menos 1 día", domain.ErrInvalidInput)
	case !cfg.SafetyFactor.GreaterThan(decimal.Zero):
		return fmt.Errorf("%w: factor de seguridad debe ser positivo", domain.ErrInvalidInput)
	case cfg.CoverDays < 1:
		return fmt.Errorf("%w: días de cobertura debe ser al menos 1", domain.ErrInvalidInput)
	case cfg.Confidence.IsNegative() || cfg.Confidence.GreaterThan(decimal.NewFromInt(1)):
		return fmt.Errorf("%w: confianza fuera de 0-1", domain.ErrInvalidInput)
	}
	return nil
}
