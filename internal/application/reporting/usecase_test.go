package reporting_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/application/inventory"
	"github.com/allothq/allot/internal/application/reporting"
	"github.com/allothq/allot/internal/application/usecase"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/infrastructure/pdf"
	"github.com/allothq/allot/internal/infrastructure/sqlite"
)

// ──────────────────────────────────────────────────────────────────────────────
// Arnés de test
// ──────────────────────────────────────────────────────────────────────────────

type reportEnv struct {
	reports      *reporting.UseCase
	reportPDF    *reporting.PDFUseCase
	poster       *inventory.PostTransactionUseCase
	products     *usecase.ProductUseCase
	distributors *usecase.DistributorUseCase
	parties      *usecase.PartyUseCase
}

func newReportEnv(t *testing.T) *reportEnv {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err, "la base en memoria debe abrir")
	t.Cleanup(func() { _ = store.Close() })

	db := store.DB()
	productRepo := sqlite.NewProductRepository(db)
	distributorRepo := sqlite.NewDistributorRepository(db)
	partyRepo := sqlite.NewPartyRepository(db)
	txRepo := sqlite.NewTransactionRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)
	runner := sqlite.NewTxRunner(store)

	reports := reporting.NewUseCase(txRepo, productRepo, distributorRepo, partyRepo)
	return &reportEnv{
		reports:      reports,
		reportPDF:    reporting.NewPDFUseCase(reports, pdf.NewMarotoReportGenerator()),
		poster:       inventory.NewPostTransactionUseCase(runner, productRepo, distributorRepo, partyRepo),
		products:     usecase.NewProductUseCase(productRepo, txRepo, ledgerRepo),
		distributors: usecase.NewDistributorUseCase(distributorRepo, txRepo),
		parties:      usecase.NewPartyUseCase(partyRepo, txRepo),
	}
}

func (env *reportEnv) seedProduct(t *testing.T, sku, name string) string {
	t.Helper()
	p, err := env.products.Create(context.Background(), dto.CreateProductRequest{SKU: sku, Name: name})
	require.NoError(t, err)
	return p.ID
}

func (env *reportEnv) seedDistributor(t *testing.T, name string) string {
	t.Helper()
	d, err := env.distributors.Create(context.Background(), dto.CreateCounterpartyRequest{Name: name})
	require.NoError(t, err)
	return d.ID
}

func (env *reportEnv) seedParty(t *testing.T, name string) string {
	t.Helper()
	p, err := env.parties.Create(context.Background(), dto.CreateCounterpartyRequest{Name: name})
	require.NoError(t, err)
	return p.ID
}

func (env *reportEnv) post(t *testing.T, txType, counterpartyID string, day time.Time, invoice string, items ...dto.PostItemRequest) *dto.TransactionResponse {
	t.Helper()
	out, err := env.poster.Post(context.Background(), dto.PostTransactionRequest{
		Type:           txType,
		CounterpartyID: counterpartyID,
		Date:           &day,
		InvoiceNumber:  invoice,
		Items:          items,
	})
	require.NoError(t, err, "la transacción de apoyo debe confirmar")
	return out
}

func item(productID, qty, rate string) dto.PostItemRequest {
	return dto.PostItemRequest{
		ProductID: productID,
		Quantity:  decimal.RequireFromString(qty),
		Rate:      decimal.RequireFromString(rate),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ──────────────────────────────────────────────────────────────────────────────
// Construcción del informe
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchases_FiltroDeFechasYOrden(t *testing.T) {
	env := newReportEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "PEN-064", "Pen Drive 64GB")
	distributorID := env.seedDistributor(t, "Sharma Electronics")

	env.post(t, entity.TxTypePurchase, distributorID, day(2026, 2, 5), "", item(productID, "10", "450"))
	env.post(t, entity.TxTypePurchase, distributorID, day(2026, 2, 10), "", item(productID, "5", "450"))
	env.post(t, entity.TxTypePurchase, distributorID, day(2026, 3, 5), "", item(productID, "8", "460"))

	all, err := env.reports.Purchases(ctx, dto.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, all.Rows, 3)
	assert.True(t, all.Rows[0].Date.Equal(day(2026, 3, 5)), "las filas van de más reciente a más antigua")
	assert.True(t, all.Rows[2].Date.Equal(day(2026, 2, 5)))
	assert.Equal(t, 3, all.TxCount)
	// 10*450 + 5*450 + 8*460 = 4500 + 2250 + 3680
	assert.True(t, all.TotalAmount.Equal(decimal.RequireFromString("10430")))

	from, to := day(2026, 2, 1), day(2026, 2, 28)
	february, err := env.reports.Purchases(ctx, dto.ReportFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, february.Rows, 2)
	assert.Equal(t, 2, february.TxCount)
	assert.True(t, february.TotalAmount.Equal(decimal.RequireFromString("6750")))
}

func TestSales_FiltroPorContraparte(t *testing.T) {
	env := newReportEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "PEN-064", "Pen Drive 64GB")
	distributorID := env.seedDistributor(t, "Sharma Electronics")
	guptaID := env.seedParty(t, "Gupta Traders")
	boseID := env.seedParty(t, "Bose Retail")
	env.post(t, entity.TxTypePurchase, distributorID, day(2026, 2, 1), "", item(productID, "20", "450"))

	env.post(t, entity.TxTypeSale, guptaID, day(2026, 2, 5), "", item(productID, "4", "550"))
	env.post(t, entity.TxTypeSale, boseID, day(2026, 2, 6), "", item(productID, "6", "550"))

	report, err := env.reports.Sales(ctx, dto.ReportFilter{CounterpartyID: guptaID})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Gupta Traders", report.Rows[0].CounterpartyName)
	assert.True(t, report.TotalAmount.Equal(decimal.RequireFromString("2200")))
}

func TestPurchases_ContenidoDeFila(t *testing.T) {
	env := newReportEnv(t)
	ctx := context.Background()
	penID := env.seedProduct(t, "PEN-064", "Pen Drive 64GB")
	kbdID := env.seedProduct(t, "KBD-USB", "Teclado USB")
	distributorID := env.seedDistributor(t, "Sharma Electronics")

	posted := env.post(t, entity.TxTypePurchase, distributorID, day(2026, 2, 10), "INV-2026-117",
		item(penID, "10", "450"), item(kbdID, "2", "620"))

	report, err := env.reports.Purchases(ctx, dto.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, posted.Number, row.Number)
	assert.Equal(t, "Sharma Electronics", row.CounterpartyName)
	assert.Equal(t, "INV-2026-117", row.InvoiceNumber)
	assert.Equal(t, 2, row.ItemCount)
	assert.True(t, row.TotalAmount.Equal(decimal.RequireFromString("5740")))

	require.Len(t, row.Items, 2)
	assert.Equal(t, "PEN-064", row.Items[0].SKU, "las líneas conservan su orden")
	assert.Equal(t, "Pen Drive 64GB", row.Items[0].ProductName)
	assert.True(t, row.Items[0].Amount.Equal(decimal.RequireFromString("4500")))
	assert.Equal(t, "KBD-USB", row.Items[1].SKU)
}

func TestSales_SinTransacciones(t *testing.T) {
	env := newReportEnv(t)

	report, err := env.reports.Sales(context.Background(), dto.ReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Equal(t, 0, report.TxCount)
	assert.True(t, report.TotalAmount.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Render PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadReportPDF_GeneraDocumento(t *testing.T) {
	env := newReportEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "PEN-064", "Pen Drive 64GB")
	distributorID := env.seedDistributor(t, "Sharma Electronics")
	env.post(t, entity.TxTypePurchase, distributorID, day(2026, 2, 10), "INV-2026-117",
		item(productID, "10", "450"))

	from, to := day(2026, 2, 1), day(2026, 2, 28)
	pdfBytes, filename, err := env.reportPDF.DownloadReportPDF(ctx, entity.TxTypePurchase, dto.ReportFilter{
		From: &from, To: &to,
	})
	require.NoError(t, err)
	assert.Equal(t, "purchase_report_20260201-20260228.pdf", filename)
	require.NotEmpty(t, pdfBytes)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")), "el resultado debe ser un PDF")
}

func TestDownloadReportPDF_SinFiltro(t *testing.T) {
	env := newReportEnv(t)

	// Un informe vacío también se renderiza (solo cabecera y totales a cero).
	pdfBytes, filename, err := env.reportPDF.DownloadReportPDF(context.Background(), entity.TxTypeSale, dto.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, "sale_report_all.pdf", filename)
	assert.NotEmpty(t, pdfBytes)
}

func TestDownloadReportPDF_TipoInvalido(t *testing.T) {
	env := newReportEnv(t)

	_, _, err := env.reportPDF.DownloadReportPDF(context.Background(), "transfer", dto.ReportFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
