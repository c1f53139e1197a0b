// Package pdf genera la lista de compras en PDF para enviar al proveedor o imprimir en recepción.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la lista   │  Estado + Fecha              │
//	│  Disparador / Creada por / Descripción                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Unid. | Stock | Reorden | Pedir | Recib.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ítems / pendientes                                 │
//	│  FOOTER: QR con el id de la lista para confirmar llegadas    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ ports.PurchaseListRenderer = (*PurchaseListPDF)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Etiquetas legibles de disparadores y estados.
var (
	triggerLabels = map[string]string{
		entity.TriggerManual:        "Manual",
		entity.TriggerCriticalStock: "Stock crítico",
		entity.TriggerScheduled:     "Programada",
		entity.TriggerPostInventory: "Tras conteo de inventario",
	}
	statusLabels = map[string]string{
		entity.ListStatusPending:    "Pendiente",
		entity.ListStatusInProgress: "En curso",
		entity.ListStatusCompleted:  "Concluida",
		entity.ListItemPartial:      "Parcial",
		entity.ListItemArrived:      "Recibido",
		entity.ListItemCancelled:    "Cancelado",
	}
)

// PurchaseListPDF implementa ports.PurchaseListRenderer usando Maroto v2.
type PurchaseListPDF struct {
	company string
}

// NewPurchaseListPDF construye el generador; company aparece como autor del documento.
func NewPurchaseListPDF(company string) *PurchaseListPDF {
	return &PurchaseListPDF{company: company}
}

func (g *PurchaseListPDF) ContentType() string { return "application/pdf" }
func (g *PurchaseListPDF) Extension() string   { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *PurchaseListPDF) Render(_ context.Context, list *entity.PurchaseList) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(list.Name, true).
		WithAuthor(nonEmpty(g.company, "Inventario"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(list))
	m.AddRows(metaRow(list))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(list.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(list.Items))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(list))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(list *entity.PurchaseList) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(list.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New(label(statusLabels, list.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+list.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func metaRow(list *entity.PurchaseList) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Origen: %s   |   Creada por: %s",
				label(triggerLabels, list.TriggerType), nonEmpty(list.CreatedBy, "-"),
			), props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New(nonEmpty(list.Description, ""), props.Text{Size: 8, Top: 6}),
		),
	)
}

// tableHeaderRow: columnas suman 12.
func tableHeaderRow() core.Row {
	h := func(title string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Unid.", 1, align.Center),
		h("Stock", 1, align.Right),
		h("Reorden", 1, align.Right),
		h("Pedir", 2, align.Right),
		h("Recibido", 1, align.Right),
		h("Estado", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(items []*entity.PurchaseListItem) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		received := "-"
		if it.ConfirmedQuantity != nil {
			received = formatQty(*it.ConfirmedQuantity)
		}
		out = append(out, row.New(7).Add(
			cell(it.ProductName, 4, align.Left),
			cell(it.Unit, 1, align.Center),
			cell(formatQty(it.CurrentStock), 1, align.Right),
			cell(formatQty(it.ReorderPoint), 1, align.Right),
			cell(formatQty(it.SuggestedQuantity), 2, align.Right),
			cell(received, 1, align.Right),
			cell(label(statusLabels, it.Status), 2, align.Center),
		))
	}
	return out
}

func summaryRow(items []*entity.PurchaseListItem) core.Row {
	pending := 0
	for _, it := range items {
		if it.Status == entity.ListItemPending || it.Status == entity.ListItemPartial {
			pending++
		}
	}
	return row.New(8).Add(
		col.New(6),
		col.New(6).Add(text.New(fmt.Sprintf("Ítems: %d   |   Por recibir: %d", len(items), pending), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
		})),
	)
}

// footerRow: QR con el id de la lista para ubicarla desde la recepción.
func footerRow(list *entity.PurchaseList) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(list.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Escanee el código para confirmar las llegadas de esta lista.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Lista: "+list.ID, props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty muestra hasta 3 decimales sin ceros de relleno: "12.500" → "12.5".
func formatQty(q decimal.Decimal) string {
	return q.Round(3).String()
}
