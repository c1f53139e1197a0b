package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ ports.PurchaseListRenderer = (*PurchaseListXLSX)(nil)

const listSheet = "Lista"

var listHeaders = []string{"Producto", "Unidad", "Stock actual", "Punto de reorden", "Cantidad a pedir", "Recibido", "Estado", "ID ítem lista"}

var listWidths = []float64{32, 10, 14, 16, 16, 12, 12, 38}

// PurchaseListXLSX exporta la lista a una planilla; la última columna permite confirmar llegadas por id.
type PurchaseListXLSX struct{}

func NewPurchaseListXLSX() *PurchaseListXLSX { return &PurchaseListXLSX{} }

func (PurchaseListXLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (PurchaseListXLSX) Extension() string { return "xlsx" }

func (PurchaseListXLSX) Render(_ context.Context, list *entity.PurchaseList) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", listSheet); err != nil {
		return nil, err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#00467F", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	// Encabezado del documento
	_ = f.SetCellValue(listSheet, "A1", list.Name)
	_ = f.SetCellValue(listSheet, "A2", fmt.Sprintf("Estado: %s   Origen: %s   Fecha: %s",
		list.Status, list.TriggerType, list.CreatedAt.Format("2006-01-02 15:04")))
	if list.Description != "" {
		_ = f.SetCellValue(listSheet, "A3", list.Description)
	}

	const headerRow = 5
	for i, h := range listHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(listSheet, cell, h)
		_ = f.SetCellStyle(listSheet, cell, cell, boldStyle)
	}

	for i, it := range list.Items {
		r := headerRow + 1 + i
		values := []any{
			it.ProductName,
			it.Unit,
			it.CurrentStock.InexactFloat64(),
			it.ReorderPoint.InexactFloat64(),
			it.SuggestedQuantity.InexactFloat64(),
			nil,
			it.Status,
			it.ID,
		}
		if it.ConfirmedQuantity != nil {
			values[5] = it.ConfirmedQuantity.InexactFloat64()
		}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(listSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+1, err)
		}
	}

	for i, w := range listWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(listSheet, col, col, w)
	}
	if err := f.SetPanes(listSheet, &excelize.Panes{
		Freeze: true, YSplit: headerRow, TopLeftCell: fmt.Sprintf("A%d", headerRow+1), ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
