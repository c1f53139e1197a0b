package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// referenceSeed marca los movimientos de stock inicial.
const referenceSeed = "SEED"

type catalog struct {
	TenantID string        `yaml:"tenant_id"`
	UserID   string        `yaml:"user_id"`
	Items    []catalogItem `yaml:"items"`
}

type catalogItem struct {
	Name               string        `yaml:"name"`
	Category           string        `yaml:"category"`
	Kind               string        `yaml:"kind"`
	BaseUnit           string        `yaml:"base_unit"`
	LeadTimeDays       int           `yaml:"lead_time_days"`
	ManualReorderPoint string        `yaml:"manual_reorder_point"`
	Perishable         bool          `yaml:"perishable"`
	OpeningStock       *openingStock `yaml:"opening_stock"`
}

type openingStock struct {
	Quantity       string `yaml:"quantity"`
	CostPerUnit    string `yaml:"cost_per_unit"`
	BatchNumber    string `yaml:"batch_number"`
	ExpirationDate string `yaml:"expiration_date"` // YYYY-MM-DD
}

func loadCatalog(r io.Reader) (*catalog, error) {
	var c catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}
	if c.TenantID == "" {
		return nil, fmt.Errorf("catálogo sin tenant_id")
	}
	if len(c.Items) == 0 {
		return nil, fmt.Errorf("catálogo sin ítems")
	}
	return &c, nil
}

func parseDecimal(field, s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", field, s, err)
	}
	return &d, nil
}

type seedResult struct {
	Created  int
	Skipped  int
	Openings int
}

type seeder struct {
	items  *inventory.ItemUseCase
	ledger *inventory.LedgerUseCase
	repo   repository.ItemRepository
}

// run crea los ítems que no existan (por nombre normalizado) y registra su stock inicial.
// Los ítems existentes no se tocan, así que el seed puede repetirse.
func (s *seeder) run(ctx context.Context, c *catalog) (*seedResult, error) {
	scope := entity.Scope{TenantID: c.TenantID, UserID: c.UserID}
	res := &seedResult{}
	for i, ci := range c.Items {
		_, err := s.repo.FindByNormalizedName(ctx, scope.TenantID, inventory.NormalizeName(ci.Name))
		switch {
		case err == nil:
			res.Skipped++
			continue
		case !errors.Is(err, domain.ErrNotFound):
			return res, fmt.Errorf("ítem %d (%s): %w", i+1, ci.Name, err)
		}

		manual, err := parseDecimal("manual_reorder_point", ci.ManualReorderPoint)
		if err != nil {
			return res, fmt.Errorf("ítem %d (%s): %w", i+1, ci.Name, err)
		}
		item, err := s.items.Create(ctx, scope, inventory.CreateItemInput{
			Name:               ci.Name,
			Category:           ci.Category,
			Kind:               ci.Kind,
			BaseUnit:           ci.BaseUnit,
			ManualReorderPoint: manual,
			LeadTimeDays:       ci.LeadTimeDays,
			IsPerishable:       ci.Perishable,
		})
		if err != nil {
			return res, fmt.Errorf("ítem %d (%s): %w", i+1, ci.Name, err)
		}
		res.Created++

		if ci.OpeningStock == nil {
			continue
		}
		in, err := openingMovement(item, ci.OpeningStock)
		if err != nil {
			return res, fmt.Errorf("ítem %d (%s): %w", i+1, ci.Name, err)
		}
		if _, err := s.ledger.RecordMovement(ctx, scope, in); err != nil {
			return res, fmt.Errorf("stock inicial de %s: %w", ci.Name, err)
		}
		res.Openings++
	}
	return res, nil
}

func openingMovement(item *entity.Item, o *openingStock) (inventory.MovementInput, error) {
	qty, err := parseDecimal("quantity", o.Quantity)
	if err != nil {
		return inventory.MovementInput{}, err
	}
	if qty == nil {
		return inventory.MovementInput{}, fmt.Errorf("opening_stock sin quantity")
	}
	cost, err := parseDecimal("cost_per_unit", o.CostPerUnit)
	if err != nil {
		return inventory.MovementInput{}, err
	}
	in := inventory.MovementInput{
		ItemID:        item.ID,
		Type:          entity.MovementTypeIN,
		Quantity:      *qty,
		Unit:          item.BaseUnit,
		CostPerUnit:   cost,
		ReferenceType: referenceSeed,
		Notes:         "stock inicial",
	}
	if o.BatchNumber != "" || o.ExpirationDate != "" {
		info := &entity.BatchInfo{BatchNumber: o.BatchNumber}
		if o.ExpirationDate != "" {
			exp, err := time.Parse("2006-01-02", o.ExpirationDate)
			if err != nil {
				return inventory.MovementInput{}, fmt.Errorf("expiration_date %q: %w", o.ExpirationDate, err)
			}
			info.ExpirationDate = &exp
		}
		in.Batch = info
	}
	return in, nil
}
