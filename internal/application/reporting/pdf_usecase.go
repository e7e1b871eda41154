package reporting

import (
	"context"
	"fmt"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
)

// PDFUseCase genera la representación gráfica (PDF) de un informe de
// compras o de ventas.
type PDFUseCase struct {
	reports   *UseCase
	generator ReportPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(reports *UseCase, generator ReportPDFGenerator) *PDFUseCase {
	return &PDFUseCase{reports: reports, generator: generator}
}

// DownloadReportPDF construye el informe del tipo dado y lo renderiza.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrInvalidInput     si txType no es purchase ni sale.
func (uc *PDFUseCase) DownloadReportPDF(
	ctx context.Context,
	txType string,
	filter dto.ReportFilter,
) (pdfBytes []byte, filename string, err error) {
	// ── 1. Construir el informe ───────────────────────────────────────────
	var report *dto.TradeReportDTO
	switch txType {
	case entity.TxTypePurchase:
		report, err = uc.reports.Purchases(ctx, filter)
	case entity.TxTypeSale:
		report, err = uc.reports.Sales(ctx, filter)
	default:
		return nil, "", fmt.Errorf("%w: tipo de informe %q", domain.ErrInvalidInput, txType)
	}
	if err != nil {
		return nil, "", fmt.Errorf("report: construcción fallida: %w", err)
	}

	// ── 2. Generar PDF ────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateTradeReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("report: generación PDF fallida: %w", err)
	}

	filename = fmt.Sprintf("%s_report_%s.pdf", txType, rangeLabel(filter))
	return pdfBytes, filename, nil
}

// rangeLabel etiqueta el rango del filtro para el nombre del fichero:
// "20260801-20260823", "20260801-", "-20260823" o "all".
func rangeLabel(filter dto.ReportFilter) string {
	if filter.From == nil && filter.To == nil {
		return "all"
	}
	from, to := "", ""
	if filter.From != nil {
		from = filter.From.Format("20060102")
	}
	if filter.To != nil {
		to = filter.To.Format("20060102")
	}
	return from + "-" + to
}
