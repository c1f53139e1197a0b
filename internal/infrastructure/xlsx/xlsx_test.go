package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/xlsx"
)

func TestPurchaseListXLSX_Render(t *testing.T) {
	confirmed := decimal.NewFromInt(4)
	list := &entity.PurchaseList{
		ID: "list-1", Name: "Lista de compras", Status: entity.ListStatusInProgress,
		TriggerType: entity.TriggerManual, CreatedAt: time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC),
		Items: []*entity.PurchaseListItem{
			{ID: "li-1", ProductName: "Harina", Unit: "KG", CurrentStock: decimal.NewFromInt(5),
				ReorderPoint: decimal.NewFromInt(20), SuggestedQuantity: decimal.NewFromInt(15), Status: entity.ListItemPending},
			{ID: "li-2", ProductName: "Azúcar", Unit: "KG", CurrentStock: decimal.NewFromInt(1),
				ReorderPoint: decimal.NewFromInt(10), SuggestedQuantity: decimal.NewFromInt(9),
				ConfirmedQuantity: &confirmed, Status: entity.ListItemPartial},
		},
	}
	r := xlsx.NewPurchaseListXLSX()
	assert.Equal(t, "xlsx", r.Extension())

	data, err := r.Render(context.Background(), list)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Lista", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Lista de compras", title)
	header, _ := f.GetCellValue("Lista", "E5")
	assert.Equal(t, "Cantidad a pedir", header)
	name, _ := f.GetCellValue("Lista", "A6")
	qty, _ := f.GetCellValue("Lista", "E6")
	id, _ := f.GetCellValue("Lista", "H7")
	received, _ := f.GetCellValue("Lista", "F7")
	assert.Equal(t, "Harina", name)
	assert.Equal(t, "15", qty)
	assert.Equal(t, "li-2", id)
	assert.Equal(t, "4", received)
}

func buildSheet(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseMovements(t *testing.T) {
	buf := buildSheet(t, [][]any{
		{"Fecha", "Producto", "Categoría", "Cantidad", "Unidad", "Costo unitario", "Tipo"},
		{"2026-04-01", "Harina de Trigo", "Secos", "25", "KG", "3.5", ""},
		{"", "", "", "", "", "", ""},
		{"02/04/2026 10:30", "harina de trigo", "", "2.5", "KG", "", "out"},
	})

	rows, err := xlsx.ParseMovements(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Harina de Trigo", rows[0].ItemName)
	assert.Equal(t, "Secos", rows[0].CategoryHint)
	assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(25)))
	require.NotNil(t, rows[0].CostPerUnit)
	assert.True(t, rows[0].CostPerUnit.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), rows[0].Timestamp)
	assert.Equal(t, "", rows[0].Type)

	assert.Nil(t, rows[1].CostPerUnit)
	assert.Equal(t, "OUT", rows[1].Type)
	assert.Equal(t, time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC), rows[1].Timestamp)
}

func TestParseMovements_Errores(t *testing.T) {
	_, err := xlsx.ParseMovements(bytes.NewReader([]byte("no es una planilla")))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = xlsx.ParseMovements(buildSheet(t, [][]any{{"Producto", "Unidad"}, {"Harina", "KG"}}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = xlsx.ParseMovements(buildSheet(t, [][]any{{"Producto", "Cantidad"}, {"Harina", "-3"}}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = xlsx.ParseMovements(buildSheet(t, [][]any{{"Producto", "Cantidad", "Fecha"}, {"Harina", "3", "ayer"}}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
