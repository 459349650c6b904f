// Package pdf genera el reporte de stock valorizado en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + alcance    │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Nombre | Cant. | P.Unit | Valor | Ubic. | ... │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Unidades / VALOR TOTAL                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"

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

	"github.com/jhoicas/inventory-manager/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorBlack   = &props.Color{Red: 0, Green: 0, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.StockReportRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador. author se escribe en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: nonEmpty(author, "Inventory Manager")}
}

// RenderStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderStockReport(r *dto.StockReportDTO) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(r.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin artículos para el alcance seleccionado.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	for _, rr := range tableDetailRows(r.Rows) {
		m.AddRows(rr)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y alcance (izq), fecha de generación (der).
func headerRow(r *dto.StockReportDTO) core.Row {
	scope := "Todas las ubicaciones"
	if r.LocationID != "" {
		scope = "Ubicación: " + nonEmpty(r.LocationName, r.LocationID)
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE STOCK VALORIZADO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(scope, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 1, align.Left),
		h("Nombre", 3, align.Left),
		h("Cant.", 1, align.Right),
		h("P.Unit", 1, align.Right),
		h("Valor total", 2, align.Right),
		h("Ubicación", 2, align.Left),
		h("Proveedor", 1, align.Left),
		h("Estado", 1, align.Center),
	)
}

// tableDetailRows: una fila por artículo.
func tableDetailRows(rows []dto.StockReportRowDTO) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(rows))
	for _, d := range rows {
		result = append(result, row.New(7).Add(
			cell(d.SKU, 1, align.Left),
			cell(d.Name, 3, align.Left),
			cell(formatInt(d.Quantity), 1, align.Right),
			cell("$"+formatMoney(d.UnitPrice), 1, align.Right),
			cell("$"+formatMoney(d.TotalValue), 2, align.Right),
			cell(d.LocationName, 2, align.Left),
			cell(d.SupplierName, 1, align.Left),
			cell(d.Status, 1, align.Center),
		))
	}
	return result
}

func totalsRow(r *dto.StockReportDTO) core.Row {
	label := func(s string, c *props.Color, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: c, Top: top, Right: 2,
		})
	}
	value := func(s string, c *props.Color, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: c, Top: top, Right: 1,
		})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Unidades:", colorBlack, 1),
			label("VALOR TOTAL:", colorPrimary, 7),
		),
		col.New(3).Add(
			value(formatInt(r.TotalQuantity), colorBlack, 1),
			value("$"+formatMoney(r.TotalValue), colorPrimary, 7),
		),
	)
}

// footerRow: QR con el resumen del reporte para cotejarlo contra el endpoint JSON.
func footerRow(r *dto.StockReportDTO) core.Row {
	summary := strings.Join([]string{
		"stock",
		r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		nonEmpty(r.LocationID, "*"),
		strconv.Itoa(len(r.Rows)),
		strconv.FormatInt(r.TotalQuantity, 10),
		r.TotalValue.String(),
	}, "|")
	return row.New(36).Add(
		col.New(3).Add(code.NewQr(summary, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New(fmt.Sprintf("%d artículos listados.", len(r.Rows)), props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Valores calculados como precio unitario × cantidad, sin redondeo intermedio.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con dos decimales, puntos de miles y coma decimal.
// Ej: 999.9 → "999,90", 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + groupThousands(intPart) + "," + frac
}

func formatInt(n int64) string {
	if n < 0 {
		return "-" + groupThousands(strconv.FormatInt(-n, 10))
	}
	return groupThousands(strconv.FormatInt(n, 10))
}

// groupThousands inserta puntos de miles en un string numérico sin signo.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
