package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CreateItemInput datos para dar de alta un ítem. El stock inicial se carga con un movimiento IN.
type CreateItemInput struct {
	Name               string
	Category           string
	Kind               string
	BaseUnit           string
	ManualReorderPoint *decimal.Decimal
	LeadTimeDays       int
	IsPerishable       bool
}

// UpdateItemInput cambios parciales de configuración; nil = sin cambio.
type UpdateItemInput struct {
	Name                    *string
	Category                *string
	Kind                    *string
	BaseUnit                *string
	ManualReorderPoint      *decimal.Decimal
	// ClearManualReorderPoint vuelve al punto de reorden calculado.
	ClearManualReorderPoint bool
	LeadTimeDays            *int
	IsPerishable            *bool
	IsActive                *bool
}

// ItemUseCase alta y configuración de ítems. Stock y costos solo cambian por el ledger.
type ItemUseCase struct {
	repos ports.Repos
	now   ports.Clock
}

// NewItemUseCase construye el caso de uso de ítems.
func NewItemUseCase(repos ports.Repos, opts ...Option) *ItemUseCase {
	o := buildOptions(opts)
	return &ItemUseCase{repos: repos, now: o.now}
}

// Create da de alta un ítem activo con stock cero.
func (uc *ItemUseCase) Create(ctx context.Context, scope entity.Scope, in CreateItemInput) (*entity.Item, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	item, err := newItem(scope, in, uc.now())
	if err != nil {
		return nil, err
	}
	if _, err := uc.repos.Items.FindByNormalizedName(ctx, scope.TenantID, item.NormalizedName); err == nil {
		return nil, fmt.Errorf("%w: ya existe un ítem llamado %q", domain.ErrDuplicate, in.Name)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := uc.repos.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get devuelve un ítem del tenant.
func (uc *ItemUseCase) Get(ctx context.Context, scope entity.Scope, id string) (*entity.Item, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.repos.Items.GetByID(ctx, scope.TenantID, id)
}

// List ítems del tenant con filtros y paginación.
func (uc *ItemUseCase) List(ctx context.Context, scope entity.Scope, f repository.ItemFilter) ([]*entity.Item, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.repos.Items.List(ctx, scope.TenantID, f)
}

// UpdateSettings aplica cambios de configuración. Desactivar es la única forma de "borrar".
func (uc *ItemUseCase) UpdateSettings(ctx context.Context, scope entity.Scope, id string, in UpdateItemInput) (*entity.Item, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.repos.Items.GetByID(ctx, scope.TenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
		}
		item.Name = name
		item.NormalizedName = NormalizeName(name)
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Kind != nil {
		if !validKind(*in.Kind) {
			return nil, fmt.Errorf("%w: tipo de ítem %q", domain.ErrInvalidInput, *in.Kind)
		}
		item.Kind = *in.Kind
	}
	if in.BaseUnit != nil {
		item.BaseUnit = strings.TrimSpace(*in.BaseUnit)
	}
	switch {
	case in.ClearManualReorderPoint:
		item.ManualReorderPoint = nil
	case in.ManualReorderPoint != nil:
		if in.ManualReorderPoint.IsNegative() {
			return nil, fmt.Errorf("%w: punto de reorden negativo", domain.ErrInvalidInput)
		}
		rp := *in.ManualReorderPoint
		item.ManualReorderPoint = &rp
	}
	if in.LeadTimeDays != nil {
		if *in.LeadTimeDays < 0 {
			return nil, fmt.Errorf("%w: lead time negativo", domain.ErrInvalidInput)
		}
		item.LeadTimeDays = *in.LeadTimeDays
	}
	if in.IsPerishable != nil {
		item.IsPerishable = *in.IsPerishable
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	item.UpdatedAt = uc.now()
	if err := uc.repos.Items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Deactivate marca el ítem como inactivo; deja de recibir movimientos y de entrar en reposición.
func (uc *ItemUseCase) Deactivate(ctx context.Context, scope entity.Scope, id string) (*entity.Item, error) {
	inactive := false
	return uc.UpdateSettings(ctx, scope, id, UpdateItemInput{IsActive: &inactive})
}

func newItem(scope entity.Scope, in CreateItemInput, now time.Time) (*entity.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	kind := in.Kind
	if kind == "" {
		kind = entity.ItemKindRawMaterial
	}
	if !validKind(kind) {
		return nil, fmt.Errorf("%w: tipo de ítem %q", domain.ErrInvalidInput, in.Kind)
	}
	if in.LeadTimeDays < 0 {
		return nil, fmt.Errorf("%w: lead time negativo", domain.ErrInvalidInput)
	}
	if in.ManualReorderPoint != nil && in.ManualReorderPoint.IsNegative() {
		return nil, fmt.Errorf("%w: punto de reorden negativo", domain.ErrInvalidInput)
	}
	unit := strings.TrimSpace(in.BaseUnit)
	if unit == "" {
		unit = "UN"
	}
	return &entity.Item{
		ID:                 uuid.New().String(),
		TenantID:           scope.TenantID,
		Name:               name,
		NormalizedName:     NormalizeName(name),
		Category:           strings.TrimSpace(in.Category),
		Kind:               kind,
		BaseUnit:           unit,
		CurrentStock:       decimal.Zero,
		AvgCost:            decimal.Zero,
		LastPurchasePrice:  decimal.Zero,
		ReorderPoint:       decimal.Zero,
		ManualReorderPoint: in.ManualReorderPoint,
		LeadTimeDays:       in.LeadTimeDays,
		IsPerishable:       in.IsPerishable,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func validKind(k string) bool {
	return k == entity.ItemKindRawMaterial || k == entity.ItemKindPrepared
}
