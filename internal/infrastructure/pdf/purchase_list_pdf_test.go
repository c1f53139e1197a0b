package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
)

func sampleList() *entity.PurchaseList {
	confirmed := decimal.NewFromInt(4)
	return &entity.PurchaseList{
		ID:          "list-1",
		Name:        "Lista de compras 2026-04-06 09:00",
		TriggerType: entity.TriggerCriticalStock,
		Status:      entity.ListStatusInProgress,
		CreatedBy:   "buyer-1",
		CreatedAt:   time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC),
		Items: []*entity.PurchaseListItem{
			{ID: "li-1", ProductName: "Harina", Unit: "KG", ReorderPoint: decimal.NewFromInt(20),
				CurrentStock: decimal.NewFromInt(5), SuggestedQuantity: decimal.NewFromInt(15), Status: entity.ListItemPending},
			{ID: "li-2", ProductName: "Azúcar", Unit: "KG", ReorderPoint: decimal.NewFromInt(10),
				CurrentStock: decimal.RequireFromString("2.5"), SuggestedQuantity: decimal.RequireFromString("7.5"),
				ConfirmedQuantity: &confirmed, Status: entity.ListItemPartial},
		},
	}
}

func TestPurchaseListPDF_Render(t *testing.T) {
	g := pdf.NewPurchaseListPDF("Cocina Central")
	assert.Equal(t, "application/pdf", g.ContentType())
	assert.Equal(t, "pdf", g.Extension())

	data, err := g.Render(context.Background(), sampleList())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPurchaseListPDF_ListaSinItems(t *testing.T) {
	l := sampleList()
	l.Items = nil
	data, err := pdf.NewPurchaseListPDF("").Render(context.Background(), l)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
