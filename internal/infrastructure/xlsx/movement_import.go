package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Columnas reconocidas en la fila de encabezado (comparadas sin acentos ni mayúsculas).
const (
	colName = iota
	colCategory
	colQuantity
	colUnit
	colCost
	colDate
	colType
)

var headerAliases = map[string]int{
	"producto":       colName,
	"item":           colName,
	"nombre":         colName,
	"insumo":         colName,
	"categoria":      colCategory,
	"cantidad":       colQuantity,
	"unidad":         colUnit,
	"costo":          colCost,
	"costo unitario": colCost,
	"precio":         colCost,
	"fecha":          colDate,
	"tipo":           colType,
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseMovements lee la primera hoja de una planilla de compras o consumos.
// La primera fila es el encabezado; producto y cantidad son obligatorios.
// Filas vacías se ignoran; una fila inválida hace fallar toda la importación.
func ParseMovements(r io.Reader) ([]inventory.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: planilla ilegible: %v", domain.ErrInvalidInput, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read excel: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: la planilla no tiene filas de datos", domain.ErrInvalidInput)
	}

	cols := make(map[int]int)
	for i, h := range rows[0] {
		if c, ok := headerAliases[inventory.NormalizeName(h)]; ok {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	if _, ok := cols[colName]; !ok {
		return nil, fmt.Errorf("%w: falta la columna de producto", domain.ErrInvalidInput)
	}
	if _, ok := cols[colQuantity]; !ok {
		return nil, fmt.Errorf("%w: falta la columna de cantidad", domain.ErrInvalidInput)
	}

	out := make([]inventory.ImportRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		cell := func(c int) string {
			idx, ok := cols[c]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		name := cell(colName)
		if name == "" && cell(colQuantity) == "" {
			continue
		}
		qty, err := decimal.NewFromString(cell(colQuantity))
		if err != nil || !qty.IsPositive() {
			return nil, fmt.Errorf("%w: fila %d: cantidad %q", domain.ErrInvalidInput, line, cell(colQuantity))
		}
		ir := inventory.ImportRow{
			ItemName:     name,
			CategoryHint: cell(colCategory),
			Quantity:     qty,
			Unit:         cell(colUnit),
			Type:         strings.ToUpper(cell(colType)),
		}
		if s := cell(colCost); s != "" {
			c, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("%w: fila %d: costo %q", domain.ErrInvalidInput, line, s)
			}
			ir.CostPerUnit = &c
		}
		if s := cell(colDate); s != "" {
			ts, err := parseDate(s)
			if err != nil {
				return nil, fmt.Errorf("%w: fila %d: fecha %q", domain.ErrInvalidInput, line, s)
			}
			ir.Timestamp = ts
		}
		out = append(out, ir)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: la planilla no tiene filas de datos", domain.ErrInvalidInput)
	}
	return out, nil
}

// parseDate acepta el serial de Excel (valor crudo de la celda) o texto en los formatos usuales.
func parseDate(s string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha no reconocido")
}
