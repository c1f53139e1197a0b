package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "acucar refinado", inventory.NormalizeName("  Açúcar   Refinado "))
	assert.Equal(t, "jamon serrano", inventory.NormalizeName("JAMÓN Serrano"))
	assert.Equal(t, "", inventory.NormalizeName("   "))
}

func TestItemUseCase_CreateYDuplicado(t *testing.T) {
	f := newFixture(t)
	it := f.newItem(t, "Jamón", nil)
	assert.Equal(t, entity.ItemKindRawMaterial, it.Kind)
	assert.True(t, it.IsActive)
	assert.True(t, it.CurrentStock.IsZero())

	_, err := f.items.Create(context.Background(), scope, inventory.CreateItemInput{Name: "jamon"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.items.Create(context.Background(), scope, inventory.CreateItemInput{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Create(context.Background(), scope, inventory.CreateItemInput{Name: "Salsa", Kind: "SERVICE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUseCase_UpdateSettingsNoTocaStock(t *testing.T) {
	f := newFixture(t)
	it := f.newItem(t, "Mantequilla", nil)
	f.record(t, inventory.MovementInput{ItemID: it.ID, Type: entity.MovementTypeIN, Quantity: d("4"), CostPerUnit: dp("5")})

	lead := 5
	got, err := f.items.UpdateSettings(context.Background(), scope, it.ID, inventory.UpdateItemInput{
		ManualReorderPoint: dp("12"),
		LeadTimeDays:       &lead,
	})
	require.NoError(t, err)
	assert.True(t, got.EffectiveReorderPoint().Equal(d("12")))

	stored := f.item(t, it.ID)
	assert.True(t, stored.CurrentStock.Equal(d("4")))
	assert.True(t, stored.AvgCost.Equal(d("5")))
	assert.Equal(t, 5, stored.LeadTimeDays)

	got, err = f.items.UpdateSettings(context.Background(), scope, it.ID, inventory.UpdateItemInput{ClearManualReorderPoint: true})
	require.NoError(t, err)
	assert.Nil(t, got.ManualReorderPoint)

	_, err = f.items.UpdateSettings(context.Background(), scope, it.ID, inventory.UpdateItemInput{ManualReorderPoint: dp("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUseCase_DesactivadoNoRecibeMovimientos(t *testing.T) {
	f := newFixture(t)
	it := f.newItem(t, "Vinagre", nil)

	_, err := f.items.Deactivate(context.Background(), scope, it.ID)
	require.NoError(t, err)

	_, err = f.ledger.RecordMovement(context.Background(), scope, inventory.MovementInput{
		ItemID: it.ID, Type: entity.MovementTypeIN, Quantity: d("1"), CostPerUnit: dp("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)

	active, err := f.items.List(context.Background(), scope, repository.ItemFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)
}
