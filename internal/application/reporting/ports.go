package reporting

import (
	"context"

	"github.com/allothq/allot/internal/application/dto"
)

// ReportPDFGenerator puerto de renderizado: convierte un informe ya
// construido en bytes PDF. La implementación vive en infraestructura.
type ReportPDFGenerator interface {
	GenerateTradeReport(ctx context.Context, report *dto.TradeReportDTO) ([]byte, error)
}
