// Package pdf implementa la generación de informes de compras y ventas en
// PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del informe  │  Rango de fechas + generado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | N° Doc | Contraparte | Fact. | Lín | Total  │
//	│    └ sublíneas por producto: SKU, nombre, cant x tarifa     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: transacciones / IMPORTE TOTAL                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/application/reporting"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/pkg/money"
)

// Asegura que *MarotoReportGenerator implemente el puerto de reporting.
var _ reporting.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa reporting.ReportPDFGenerator usando
// Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateTradeReport genera el PDF del informe y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateTradeReport(_ context.Context, report *dto.TradeReportDTO) ([]byte, error) {
	title := reportTitle(report.TxType)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(title, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// Tabla de transacciones
	m.AddRows(tableHeaderRow(report.TxType))
	for _, r := range report.Rows {
		m.AddRows(transactionRow(&r))
		for _, it := range itemRows(r.Items) {
			m.AddRows(it)
		}
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	// Pie
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar informe: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del informe (izq) y rango de fechas + generado (der).
func headerRow(title string, report *dto.TradeReportDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(rangeText(report), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Generated "+time.Now().Format("02 Jan 2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de transacciones.
func tableHeaderRow(txType string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Date", 2, align.Left),
		h("Number", 2, align.Left),
		h(counterpartyLabel(txType), 3, align.Left),
		h("Invoice", 2, align.Left),
		h("Lines", 1, align.Center),
		h("Amount", 2, align.Right),
	)
}

// transactionRow: una fila por cabecera de transacción.
func transactionRow(r *dto.ReportRowDTO) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(
			r.Date.Format("02/01/2006"),
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(2).Add(text.New(
			r.Number,
			props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(3).Add(text.New(
			r.CounterpartyName,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(2).Add(text.New(
			nonEmpty(r.InvoiceNumber, "-"),
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
		)),
		col.New(1).Add(text.New(
			fmt.Sprintf("%d", r.ItemCount),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(2).Add(text.New(
			money.Format(r.TotalAmount),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

// itemRows: sublíneas de producto debajo de cada transacción.
func itemRows(items []dto.ReportItemDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(5).Add(
			col.New(1),
			col.New(2).Add(text.New(
				it.SKU,
				props.Text{Size: 7, Align: align.Left, Top: 0.5, Color: colorGray},
			)),
			col.New(5).Add(text.New(
				it.ProductName,
				props.Text{Size: 7, Align: align.Left, Top: 0.5, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%s x %s", it.Quantity.String(), money.Format(it.Rate)),
				props.Text{Size: 7, Align: align.Right, Top: 0.5, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				money.Format(it.Amount),
				props.Text{Size: 7, Align: align.Right, Top: 0.5, Right: 1, Color: colorGray},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(report *dto.TradeReportDTO) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	return row.New(16).Add(
		col.New(4),
		col.New(4).Add(
			label("Transactions:"),
			grandLabel("TOTAL:"),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d", report.TxCount), props.Text{
				Size: 9, Align: align.Right, Right: 1,
			}),
			text.New(money.Format(report.TotalAmount), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 7,
			}),
		),
	)
}

// footerRow: leyenda de pie de página.
func footerRow() core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(
			"Amounts in INR. Stock figures derive from the transaction ledger.",
			props.Text{Size: 6.5, Color: colorGray, Top: 1},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func reportTitle(txType string) string {
	if txType == entity.TxTypeSale {
		return "SALES REPORT"
	}
	return "PURCHASE REPORT"
}

func counterpartyLabel(txType string) string {
	if txType == entity.TxTypeSale {
		return "Party"
	}
	return "Distributor"
}

// rangeText describe el rango de fechas filtrado del informe.
func rangeText(report *dto.TradeReportDTO) string {
	const layout = "02 Jan 2006"
	switch {
	case report.From != nil && report.To != nil:
		return report.From.Format(layout) + " to " + report.To.Format(layout)
	case report.From != nil:
		return "From " + report.From.Format(layout)
	case report.To != nil:
		return "Until " + report.To.Format(layout)
	default:
		return "All dates"
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
